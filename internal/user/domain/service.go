package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Response is the owner-visible view of a principal's profile and payout
// settings.
type Response struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PayoutHandle string `json:"payoutHandle"`
	Currency     string `json:"currency"`
}

// UpdateSettingsRequest updates payout settings. Nil fields are untouched.
type UpdateSettingsRequest struct {
	PayoutHandle *string `json:"payoutHandle"`
	Currency     *string `json:"currency"`
}

// Service reads and updates principal settings. The invoice lifecycle
// manager only ever reads them.
type Service interface {
	Me(ctx context.Context, userID snowflake.ID) (*Response, error)
	UpdateSettings(ctx context.Context, userID snowflake.ID, req UpdateSettingsRequest) (*Response, error)
}

var ErrUserNotFound = errors.New("user_not_found")
