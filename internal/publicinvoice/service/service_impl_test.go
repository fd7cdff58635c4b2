package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jadeswanstrom/ioweyou/internal/config"
	invoicedomain "github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"github.com/jadeswanstrom/ioweyou/internal/publicinvoice/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupPublicTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&invoicedomain.Invoice{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newPublicService(t *testing.T, db *gorm.DB, cacheTTL time.Duration) domain.Service {
	t.Helper()
	return NewService(Params{
		DB:  db,
		Log: zap.NewNop(),
		Cfg: config.Config{HTTP: config.HTTPConfig{PublicViewCacheTTL: cacheTTL}},
	})
}

func insertSharedInvoice(t *testing.T, db *gorm.DB, token string, shared bool) *invoicedomain.Invoice {
	t.Helper()
	inv := invoicedomain.Invoice{
		ID:              snowflake.ID(time.Now().UnixNano()),
		OwnerID:         snowflake.ID(100),
		Title:           "Logo design",
		Client:          "ACME",
		RecipientEmails: "a@example.com,b@example.com",
		Notes:           "net 30",
		Date:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Total:           decimal.RequireFromString("42.5"),
		Status:          invoicedomain.StatusPending,
		Receipt:         invoicedomain.Receipt{URL: "https://files.test/r.png", Kind: invoicedomain.ReceiptKindImage},
		ShareEnabled:    shared,
		PayeePayoutBase: "https://paypal.me/jdoe",
		Currency:        "USD",
	}
	if token != "" {
		inv.ShareToken = &token
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("insert invoice: %v", err)
	}
	return &inv
}

func TestGetByTokenRedactsView(t *testing.T) {
	db := setupPublicTestDB(t)
	svc := newPublicService(t, db, 0)
	insertSharedInvoice(t, db, "tok-public", true)

	view, err := svc.GetByToken(context.Background(), "tok-public")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}

	if view.Title != "Logo design" || view.Client != "ACME" {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.PayableLink != "https://paypal.me/jdoe/42.50USD" {
		t.Fatalf("unexpected payable link %q", view.PayableLink)
	}
	if view.Status != invoicedomain.StatusPending {
		t.Fatalf("expected current status, got %s", view.Status)
	}
	if view.ReceiptURL != "https://files.test/r.png" {
		t.Fatalf("unexpected receipt url %q", view.ReceiptURL)
	}
}

func TestGetByTokenAmbiguousFailures(t *testing.T) {
	db := setupPublicTestDB(t)
	svc := newPublicService(t, db, 0)
	insertSharedInvoice(t, db, "tok-disabled", false)

	for _, token := range []string{"", "   ", "tok-unknown", "tok-disabled"} {
		_, err := svc.GetByToken(context.Background(), token)
		if !errors.Is(err, domain.ErrNotFoundOrUnshared) {
			t.Fatalf("token %q: expected the single ambiguous error, got %v", token, err)
		}
	}
}

func TestGetByTokenCaches(t *testing.T) {
	db := setupPublicTestDB(t)
	svc := newPublicService(t, db, time.Minute)
	inv := insertSharedInvoice(t, db, "tok-cached", true)

	if _, err := svc.GetByToken(context.Background(), "tok-cached"); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	// A stale read inside the TTL window is acceptable; the cached view
	// must survive the row disappearing.
	if err := db.Delete(&invoicedomain.Invoice{}, "id = ?", inv.ID).Error; err != nil {
		t.Fatalf("delete invoice: %v", err)
	}
	view, err := svc.GetByToken(context.Background(), "tok-cached")
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if view.Title != "Logo design" {
		t.Fatalf("unexpected cached view %+v", view)
	}
}
