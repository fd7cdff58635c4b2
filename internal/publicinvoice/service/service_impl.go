package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jadeswanstrom/ioweyou/internal/cache"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	invoicedomain "github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"github.com/jadeswanstrom/ioweyou/internal/publicinvoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
	Cfg config.Config
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cache cache.Cache[string, domain.View]
	ttl   time.Duration
}

func NewService(p Params) domain.Service {
	var views cache.Cache[string, domain.View] = cache.NoopCache[string, domain.View]{}
	ttl := p.Cfg.HTTP.PublicViewCacheTTL
	if ttl > 0 {
		views = cache.NewTTLCache[string, domain.View]()
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("publicinvoice.service"),
		cache: views,
		ttl:   ttl,
	}
}

// GetByToken looks up a shared invoice by its bearer token. The token and
// the sharing flag are checked in one query so a disabled share and an
// unknown token are indistinguishable to the caller.
func (s *Service) GetByToken(ctx context.Context, token string) (*domain.View, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrNotFoundOrUnshared
	}

	if view, ok := s.cache.Get(token); ok {
		return &view, nil
	}

	var inv invoicedomain.Invoice
	err := s.db.WithContext(ctx).
		Where("share_token = ? AND share_enabled = ?", token, true).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFoundOrUnshared
		}
		return nil, err
	}

	view := domain.View{
		Title:       inv.Title,
		Client:      inv.Client,
		Notes:       inv.Notes,
		Total:       inv.Total,
		Currency:    inv.Currency,
		Date:        inv.Date,
		Status:      inv.Status,
		ReceiptURL:  inv.Receipt.URL,
		PayableLink: invoicedomain.PayableLink(inv.PayeePayoutBase, inv.Total, inv.Currency),
	}
	s.cache.Set(token, view, s.ttl)
	return &view, nil
}
