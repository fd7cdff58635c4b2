package events

import (
	"context"
	"errors"
	"time"

	"github.com/jadeswanstrom/ioweyou/internal/clock"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	"github.com/jadeswanstrom/ioweyou/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RelayParams struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Cfg   config.Config
}

// Relay drains unpublished invoice events and marks them published. The
// events table is the integration surface; downstream consumers read it.
type Relay struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	cfg     config.OutboxConfig
	metrics *metrics.OutboxMetrics
}

func NewRelay(p RelayParams) *Relay {
	return &Relay{
		db:    p.DB,
		log:   p.Log.Named("events.relay"),
		clock: p.Clock,
		cfg:   p.Cfg.Outbox,
		metrics: metrics.OutboxWithConfig(metrics.Config{
			ServiceName: p.Cfg.Telemetry.ServiceName,
			Environment: p.Cfg.App.Environment,
		}),
	}
}

func (r *Relay) RunForever(ctx context.Context) {
	interval := r.cfg.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := r.RunOnce(); err != nil {
			r.log.Warn("event relay run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (r *Relay) RunOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.processBatch(ctx, r.cfg.BatchSize)
	return err
}

func (r *Relay) processBatch(ctx context.Context, limit int) (int, error) {
	if r.db == nil {
		return 0, errors.New("relay_unavailable")
	}
	if limit <= 0 {
		limit = 50
	}

	processed := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []InvoiceEvent
		if err := tx.
			Where("published = ?", false).
			Order("created_at ASC, id ASC").
			Limit(limit).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		now := r.clock.Now()
		for _, row := range rows {
			if err := tx.Model(&InvoiceEvent{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{"published": true, "published_at": now}).Error; err != nil {
				r.metrics.IncRelayed("failed")
				return err
			}
			r.metrics.ObserveRelayLag(now.Sub(row.CreatedAt))
			r.metrics.IncRelayed("success")
			r.log.Info("invoice event relayed",
				zap.String("event_id", row.ID.String()),
				zap.String("event_type", row.EventType),
			)
			processed++
		}
		return nil
	})
	if err != nil {
		return processed, err
	}

	var backlog int64
	if err := r.db.WithContext(ctx).
		Model(&InvoiceEvent{}).
		Where("published = ?", false).
		Count(&backlog).Error; err == nil {
		r.metrics.SetBacklog(int(backlog))
	}

	return processed, nil
}
