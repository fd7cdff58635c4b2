package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

// localStore writes receipts to a directory served as static files. Dev
// fallback when no bucket is configured.
type localStore struct {
	log           *zap.Logger
	genID         *snowflake.Node
	dir           string
	publicBaseURL string
}

func newLocalStore(dir, publicBaseURL string, log *zap.Logger, genID *snowflake.Node) Store {
	if dir == "" {
		dir = "uploads"
	}
	return &localStore{
		log:           log.Named("storage.local"),
		genID:         genID,
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *localStore) Put(ctx context.Context, upload Upload) (Object, error) {
	ext, err := validate(upload)
	if err != nil {
		return Object{}, err
	}

	name := fmt.Sprintf("%s-%s", s.genID.Generate(), safeName(upload.OriginalName))
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Object{}, fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), upload.Data, 0o644); err != nil {
		return Object{}, fmt.Errorf("write upload: %w", err)
	}

	s.log.Info("receipt stored", zap.String("file", name), zap.Int("bytes", len(upload.Data)))
	return Object{
		Key:  name,
		URL:  s.publicBaseURL + "/uploads/" + name,
		Kind: KindFor(upload.ContentType),
	}, nil
}
