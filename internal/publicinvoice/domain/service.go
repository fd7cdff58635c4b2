package domain

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"github.com/shopspring/decimal"
)

// ErrNotFoundOrUnshared is the single error for every failed public lookup.
// A viewer cannot tell a token that never existed from one whose invoice is
// no longer shared.
var ErrNotFoundOrUnshared = errors.New("invoice_not_found_or_unshared")

// View is the redacted public projection of a shared invoice. It carries no
// owner identifier, no recipient list and no share token.
type View struct {
	Title       string               `json:"title"`
	Client      string               `json:"client"`
	Notes       string               `json:"notes,omitempty"`
	Total       decimal.Decimal      `json:"total"`
	Currency    string               `json:"currency"`
	Date        time.Time            `json:"date"`
	Status      invoicedomain.Status `json:"status"`
	ReceiptURL  string               `json:"receiptUrl,omitempty"`
	PayableLink string               `json:"payableLink"`
}

// Service resolves share tokens into public views.
type Service interface {
	GetByToken(ctx context.Context, token string) (*View, error)
}
