package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status is a flat re-labelable set, not a strict workflow: any status may
// be set from any other.
type Status string

const (
	StatusUnpaid   Status = "Unpaid"
	StatusPending  Status = "Pending"
	StatusPaid     Status = "Paid"
	StatusArchived Status = "Archived"
)

// AllStatuses is the allowed set for status validation.
var AllStatuses = []Status{StatusUnpaid, StatusPending, StatusPaid, StatusArchived}

// Valid reports whether s is inside the status enum.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Receipt kinds, derived from the uploaded content type.
const (
	ReceiptKindImage    = "image"
	ReceiptKindDocument = "document"
)

// Receipt describes an attached receipt stored by the storage collaborator.
type Receipt struct {
	URL          string `gorm:"column:url;type:text" json:"url"`
	StorageID    string `gorm:"column:storage_id;type:text" json:"storageId"`
	OriginalName string `gorm:"column:original_name;type:text" json:"originalName"`
	Kind         string `gorm:"column:kind;type:text" json:"kind"`
}

// Invoice is an informal IOU-style invoice owned by a single user.
type Invoice struct {
	ID      snowflake.ID `gorm:"primaryKey"`
	OwnerID snowflake.ID `gorm:"not null;index"`

	Title  string `gorm:"type:text;not null"`
	Client string `gorm:"type:text;not null"`

	RecipientEmails string `gorm:"type:text;not null;default:''"`
	Notes           string `gorm:"type:text;not null;default:''"`

	Date  time.Time       `gorm:"not null"`
	Total decimal.Decimal `gorm:"type:decimal(20,4);not null"`

	Status Status `gorm:"type:text;not null;default:'Unpaid'"`

	Receipt Receipt `gorm:"embedded;embeddedPrefix:receipt_"`

	// ShareToken is globally unique when present and never regenerated for
	// the same invoice.
	ShareToken      *string `gorm:"type:text;uniqueIndex:ux_invoices_share_token"`
	ShareEnabled    bool    `gorm:"not null;default:false"`
	PayeePayoutBase string  `gorm:"type:text;not null;default:''"`
	Currency        string  `gorm:"type:text;not null;default:'USD'"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// Token returns the share token or empty when none was issued.
func (i *Invoice) Token() string {
	if i.ShareToken == nil {
		return ""
	}
	return *i.ShareToken
}

// Published reports whether the payout snapshot and token are both in place.
func (i *Invoice) Published() bool {
	return i.ShareEnabled && i.Token() != "" && i.PayeePayoutBase != ""
}

// Response is the owner-facing projection of an invoice.
type Response struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Client          string          `json:"client"`
	RecipientEmails string          `json:"recipientEmails"`
	Notes           string          `json:"notes"`
	Date            time.Time       `json:"date"`
	Total           decimal.Decimal `json:"total"`
	Status          Status          `json:"status"`
	Receipt         *Receipt        `json:"receipt,omitempty"`
	ShareToken      string          `json:"shareToken,omitempty"`
	ShareEnabled    bool            `json:"shareEnabled"`
	PayeePayoutBase string          `json:"payeePayoutBase,omitempty"`
	Currency        string          `json:"currency"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ToResponse converts a stored invoice into the owner-facing projection.
func ToResponse(inv *Invoice) *Response {
	resp := &Response{
		ID:              inv.ID.String(),
		Title:           inv.Title,
		Client:          inv.Client,
		RecipientEmails: inv.RecipientEmails,
		Notes:           inv.Notes,
		Date:            inv.Date,
		Total:           inv.Total,
		Status:          inv.Status,
		ShareToken:      inv.Token(),
		ShareEnabled:    inv.ShareEnabled,
		PayeePayoutBase: inv.PayeePayoutBase,
		Currency:        inv.Currency,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
	if inv.Receipt.URL != "" {
		receipt := inv.Receipt
		resp.Receipt = &receipt
	}
	return resp
}
