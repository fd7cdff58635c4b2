package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Notification is the outbound message request handed to the notification
// collaborator. It carries everything needed to compose the message so the
// dispatcher takes no dependency on invoice persistence.
type Notification struct {
	Recipients  []string
	Title       string
	Client      string
	Total       decimal.Decimal
	Currency    string
	Status      Status
	Date        time.Time
	Notes       string
	ReceiptURL  string
	PayableLink string
	ShareURL    string
}

// Notifier delivers invoice notifications. Delivery failure is reported to
// the caller but never rolls back invoice state.
type Notifier interface {
	InvoiceSent(ctx context.Context, n Notification) error
}
