package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/jadeswanstrom/ioweyou/internal/auth/domain"
	"github.com/jadeswanstrom/ioweyou/internal/clock"
	"github.com/jadeswanstrom/ioweyou/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		clock: p.Clock,
	}
}

func (s *Service) Me(ctx context.Context, userID snowflake.ID) (*domain.Response, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(user), nil
}

func (s *Service) UpdateSettings(ctx context.Context, userID snowflake.ID, req domain.UpdateSettingsRequest) (*domain.Response, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.PayoutHandle != nil {
		user.PayoutHandle = strings.TrimSpace(*req.PayoutHandle)
	}
	if req.Currency != nil {
		user.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}

	s.log.Info("payout settings updated", zap.String("user_id", userID.String()))
	return toResponse(user), nil
}

func (s *Service) load(ctx context.Context, userID snowflake.ID) (*authdomain.User, error) {
	var user authdomain.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func toResponse(user *authdomain.User) *domain.Response {
	return &domain.Response{
		ID:           user.ID.String(),
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Name:         user.Name,
		Email:        user.Email,
		PayoutHandle: user.PayoutHandle,
		Currency:     user.Currency,
	}
}
