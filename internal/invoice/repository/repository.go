package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"gorm.io/gorm"
)

type repository struct{}

// Provide returns the gorm-backed invoice repository.
func Provide() domain.Repository {
	return repository{}
}

func (repository) Insert(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	return db.WithContext(ctx).Create(inv).Error
}

func (repository) Save(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	return db.WithContext(ctx).Save(inv).Error
}

func (repository) ClaimToken(ctx context.Context, db *gorm.DB, inv *domain.Invoice) error {
	res := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ? AND share_token IS NULL", inv.ID).
		Updates(map[string]any{
			"share_token":       inv.ShareToken,
			"share_enabled":     true,
			"payee_payout_base": inv.PayeePayoutBase,
			"currency":          inv.Currency,
			"updated_at":        inv.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTokenAlreadyIssued
	}
	return nil
}

func (repository) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (repository) List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter domain.ListFilter) ([]domain.Invoice, int64, error) {
	query := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("owner_id = ?", ownerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []domain.Invoice
	err := query.
		Order("created_at DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (repository) TokenExists(ctx context.Context, db *gorm.DB, token string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("share_token = ?", token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
