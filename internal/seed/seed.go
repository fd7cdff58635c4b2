package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/jadeswanstrom/ioweyou/internal/auth/domain"
	"github.com/jadeswanstrom/ioweyou/internal/auth/password"
	"gorm.io/gorm"
)

const (
	defaultUserEmail    = "dev@ioweyou.local"
	defaultUserPassword = "changeme"
	defaultPayoutHandle = "dev-payouts"
)

// EnsureDefaultUser seeds a local development account so the API is usable
// right after first boot. The account carries a payout handle so publish
// and send work out of the box. Never enabled in production.
func EnsureDefaultUser(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user authdomain.User
		err := tx.Where("email = ?", defaultUserEmail).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(defaultUserPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user = authdomain.User{
			ID:           node.Generate(),
			FirstName:    "Dev",
			LastName:     "User",
			Name:         "Dev User",
			Email:        defaultUserEmail,
			PasswordHash: hashed,
			PayoutHandle: defaultPayoutHandle,
			Currency:     "USD",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&user).Error
	})
}
