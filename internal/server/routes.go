package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	"github.com/jadeswanstrom/ioweyou/internal/observability/logger"
	"github.com/jadeswanstrom/ioweyou/internal/observability/metrics"
	"github.com/jadeswanstrom/ioweyou/internal/observability/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Provide(NewEngine),
	fx.Invoke(RunHTTP),
)

func NewEngine(s *Server, cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/health", "/metrics"},
	}))
	engine.Use(tracing.GinMiddleware(cfg.Telemetry.ServiceName))
	if s.httpMetrics != nil {
		engine.Use(metrics.GinMiddleware(s.httpMetrics))
	}
	engine.Use(s.AuditContext())

	RegisterRoutes(engine, s)
	return engine
}

func RegisterRoutes(engine *gin.Engine, s *Server) {
	engine.GET("/health", s.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := engine.Group("/auth")
	{
		auth.POST("/register", s.RateLimit(s.authLimiter), s.Register)
		auth.POST("/login", s.RateLimit(s.authLimiter), s.Login)
		auth.GET("/me", s.AuthRequired(), s.Me)
	}

	users := engine.Group("/users", s.AuthRequired())
	{
		users.GET("/me", s.GetSettings)
		users.PATCH("/me", s.UpdateSettings)
	}

	engine.POST("/uploads/receipt", s.AuthRequired(), s.UploadReceipt)

	invoices := engine.Group("/invoices", s.AuthRequired())
	{
		invoices.POST("", s.CreateInvoice)
		invoices.GET("", s.ListInvoices)
		invoices.GET("/:id", s.GetInvoiceByID)
		invoices.PATCH("/:id", s.SetInvoiceStatus)
		invoices.POST("/:id/publish", s.PublishInvoice)
		invoices.POST("/:id/send", s.SendInvoice)
	}

	engine.GET("/public/invoices/:token", s.RateLimit(s.publicLimiter), s.GetPublicInvoice)
}

func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
