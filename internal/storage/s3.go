package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bwmarrin/snowflake"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	"go.uber.org/zap"
)

// s3Store keeps receipts in any S3-compatible bucket (AWS S3, MinIO, R2).
type s3Store struct {
	client        *s3.Client
	log           *zap.Logger
	genID         *snowflake.Node
	bucket        string
	publicBaseURL string
}

func newS3Store(cfg config.StorageConfig, log *zap.Logger, genID *snowflake.Node) (Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Store{
		client:        client,
		log:           log.Named("storage.s3"),
		genID:         genID,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *s3Store) Put(ctx context.Context, upload Upload) (Object, error) {
	ext, err := validate(upload)
	if err != nil {
		return Object{}, err
	}

	name := safeName(upload.OriginalName)
	key := fmt.Sprintf("receipts/%s/%s", s.genID.Generate(), name)
	if !strings.HasSuffix(strings.ToLower(key), ext) {
		key += ext
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(upload.Data),
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		return Object{}, fmt.Errorf("put object: %w", err)
	}

	s.log.Info("receipt stored", zap.String("key", key), zap.Int("bytes", len(upload.Data)))
	return Object{
		Key:  key,
		URL:  s.publicBaseURL + "/" + key,
		Kind: KindFor(upload.ContentType),
	}, nil
}
