package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is an authenticated principal. PayoutHandle and Currency are the
// settings the payout resolver snapshots at publish time.
type User struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	FirstName string       `gorm:"type:text;not null"`
	LastName  string       `gorm:"type:text;not null"`
	Name      string       `gorm:"type:text;not null;default:''"`

	Email        string `gorm:"type:text;not null;uniqueIndex:ux_users_email"`
	PasswordHash string `gorm:"type:text;not null"`

	// PayoutHandle is either a bare payment-provider username or a full URL.
	PayoutHandle string `gorm:"type:text;not null;default:''"`
	Currency     string `gorm:"type:text;not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
