package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jadeswanstrom/ioweyou/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

// CreateRequest carries the owner-supplied fields for a new invoice.
// Total is required but deliberately permissive: zero and negative totals
// are accepted.
type CreateRequest struct {
	Title           string           `json:"title"`
	Client          string           `json:"client"`
	Total           *decimal.Decimal `json:"total"`
	Date            *time.Time       `json:"date"`
	Status          string           `json:"status"`
	Receipt         *Receipt         `json:"receipt"`
	RecipientEmails string           `json:"recipientEmails"`
	Notes           string           `json:"notes"`
}

type ListRequest struct {
	pagination.Pagination
	// Status filters the list; empty or "All" returns every invoice.
	Status string `form:"status"`
}

type ListResponse struct {
	pagination.PageInfo
	Invoices []Response `json:"invoices"`
}

// PublishResponse is the result of enabling public sharing.
type PublishResponse struct {
	Invoice    *Response `json:"invoice"`
	ShareToken string    `json:"shareToken"`
	SharePath  string    `json:"sharePath"`
	ShareURL   string    `json:"shareUrl"`
}

// SendResponse reports a completed dispatch.
type SendResponse struct {
	SentTo   []string `json:"sentTo"`
	ShareURL string   `json:"shareUrl"`
}

// Service owns the invoice lifecycle: creation, the status state machine,
// and the publish/send operations.
type Service interface {
	Create(ctx context.Context, ownerID snowflake.ID, req CreateRequest) (*Response, error)
	List(ctx context.Context, ownerID snowflake.ID, req ListRequest) (ListResponse, error)
	GetByID(ctx context.Context, ownerID, id snowflake.ID) (*Response, error)
	SetStatus(ctx context.Context, ownerID, id snowflake.ID, status string) (*Response, error)
	Publish(ctx context.Context, ownerID, id snowflake.ID) (*PublishResponse, error)
	Send(ctx context.Context, ownerID, id snowflake.ID) (*SendResponse, error)
}

// ParseID parses an invoice id from a path segment.
func ParseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

var (
	ErrInvalidID         = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound   = errors.New("invoice_not_found")
	ErrInvalidTitle      = errors.New("invalid_title")
	ErrInvalidClient     = errors.New("invalid_client")
	ErrMissingTotal      = errors.New("missing_total")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrNoRecipients      = errors.New("no_recipients")
	ErrTooManyRecipients = errors.New("too_many_recipients")
	ErrDeliveryFailed    = errors.New("delivery_failed")

	// ErrTokenAlreadyIssued signals that a concurrent publish won the
	// token write; the caller reloads and adopts the stored token.
	ErrTokenAlreadyIssued = errors.New("share_token_already_issued")
)
