package server

import (
	"github.com/bwmarrin/snowflake"
	auditservice "github.com/jadeswanstrom/ioweyou/internal/audit/service"
	authdomain "github.com/jadeswanstrom/ioweyou/internal/auth/domain"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	invoicedomain "github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"github.com/jadeswanstrom/ioweyou/internal/observability/metrics"
	publicdomain "github.com/jadeswanstrom/ioweyou/internal/publicinvoice/domain"
	"github.com/jadeswanstrom/ioweyou/internal/storage"
	userdomain "github.com/jadeswanstrom/ioweyou/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cfg         config.Config
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`

	AuthSvc    authdomain.Service
	UserSvc    userdomain.Service
	InvoiceSvc invoicedomain.Service
	PublicSvc  publicdomain.Service
	AuditSvc   auditservice.Service `optional:"true"`
	Store      storage.Store
}

// Server carries the handler dependencies. One instance serves every route.
type Server struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         config.Config
	httpMetrics *metrics.HTTPMetrics

	authSvc    authdomain.Service
	userSvc    userdomain.Service
	invoiceSvc invoicedomain.Service
	publicSvc  publicdomain.Service
	auditSvc   auditservice.Service
	store      storage.Store

	publicLimiter *rateLimiter
	authLimiter   *rateLimiter
}

func auditEntry(userID snowflake.ID, action, targetType, targetID string, metadata map[string]any) auditservice.Entry {
	return auditservice.Entry{
		UserID:     userID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   metadata,
	}
}

func New(p Params) *Server {
	return &Server{
		db:          p.DB,
		log:         p.Log.Named("server"),
		cfg:         p.Cfg,
		httpMetrics: p.HTTPMetrics,
		authSvc:     p.AuthSvc,
		userSvc:     p.UserSvc,
		invoiceSvc:  p.InvoiceSvc,
		publicSvc:   p.PublicSvc,
		auditSvc:    p.AuditSvc,
		store:       p.Store,
		publicLimiter: newRateLimiter(
			p.Cfg.HTTP.PublicRateLimit,
			p.Cfg.HTTP.PublicRateWindow,
		),
		authLimiter: newRateLimiter(
			p.Cfg.HTTP.AuthRateLimit,
			p.Cfg.HTTP.AuthRateWindow,
		),
	}
}
