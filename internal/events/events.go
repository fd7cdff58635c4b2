package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Invoice lifecycle event types.
const (
	EventInvoiceCreated       = "invoice.created"
	EventInvoiceStatusChanged = "invoice.status_changed"
	EventInvoicePublished     = "invoice.published"
	EventInvoiceSent          = "invoice.sent"
)

// InvoiceEvent is an outbox row recording a lifecycle transition.
type InvoiceEvent struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	OwnerID     snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_invoice_events_dedupe,priority:1"`
	EventType   string            `gorm:"type:text;not null"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb;not null"`
	DedupeKey   *string           `gorm:"type:text;uniqueIndex:ux_invoice_events_dedupe,priority:2"`
	Published   bool              `gorm:"not null;default:false"`
	PublishedAt *time.Time        `gorm:""`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceEvent) TableName() string { return "invoice_events" }

// InvoicePayload captures the minimal data needed to follow up on an
// invoice event. The share token is deliberately absent.
type InvoicePayload struct {
	InvoiceID string `json:"invoice_id"`
	Status    string `json:"status,omitempty"`
	SentCount int    `json:"sent_count,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p InvoicePayload) ToMap() map[string]any {
	payload := map[string]any{
		"invoice_id": p.InvoiceID,
	}
	if p.Status != "" {
		payload["status"] = p.Status
	}
	if p.SentCount > 0 {
		payload["sent_count"] = p.SentCount
	}
	return payload
}
