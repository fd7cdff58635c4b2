package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter narrows a listing; zero value lists everything newest-first.
type ListFilter struct {
	Status Status
	Offset int
	Limit  int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, inv *Invoice) error
	// Save persists the full invoice row. A unique-constraint violation on
	// share_token is translated to token collision by the caller.
	Save(ctx context.Context, db *gorm.DB, inv *Invoice) error
	// ClaimToken writes the share token and payout snapshot only when the
	// stored row has no token yet; ErrTokenAlreadyIssued means a concurrent
	// writer got there first and the stored token must be adopted.
	ClaimToken(ctx context.Context, db *gorm.DB, inv *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, filter ListFilter) ([]Invoice, int64, error)
	TokenExists(ctx context.Context, db *gorm.DB, token string) (bool, error)
}
