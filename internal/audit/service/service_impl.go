package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/jadeswanstrom/ioweyou/internal/audit/domain"
	"github.com/jadeswanstrom/ioweyou/internal/auditcontext"
	"github.com/jadeswanstrom/ioweyou/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry is one auditable action. Request metadata (ip, user agent,
// request id) is read off the context, not carried here.
type Entry struct {
	UserID     snowflake.ID
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

// Service records the audit trail. Recording failures are logged, never
// surfaced: audit must not fail the action it describes.
type Service interface {
	Record(ctx context.Context, entry Entry)
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.AuditLog, error)
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type serviceImpl struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) Service {
	return &serviceImpl{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *serviceImpl) Record(ctx context.Context, entry Entry) {
	if entry.Action == "" {
		return
	}

	metadata := datatypes.JSONMap{}
	for key, value := range entry.Metadata {
		metadata[key] = value
	}
	if requestID := auditcontext.RequestIDFromContext(ctx); requestID != "" {
		metadata["request_id"] = requestID
	}

	row := domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  string(domain.ActorTypeUser),
		Action:     entry.Action,
		TargetType: entry.TargetType,
		Metadata:   metadata,
		CreatedAt:  s.clock.Now(),
	}
	if entry.UserID != 0 {
		userID := entry.UserID
		row.UserID = &userID
	} else {
		row.ActorType = string(domain.ActorTypeSystem)
	}
	if entry.TargetID != "" {
		targetID := entry.TargetID
		row.TargetID = &targetID
	}
	if ip := auditcontext.IPAddressFromContext(ctx); ip != "" {
		row.IPAddress = &ip
	}
	if ua := auditcontext.UserAgentFromContext(ctx); ua != "" {
		row.UserAgent = &ua
	}

	if err := s.repo.Insert(ctx, s.db, &row); err != nil {
		s.log.Warn("audit entry not recorded",
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

func (s *serviceImpl) List(ctx context.Context, filter domain.ListFilter) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, s.db, filter)
}
