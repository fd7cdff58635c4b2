package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"github.com/shopspring/decimal"
)

func sampleNotification() domain.Notification {
	return domain.Notification{
		Recipients:  []string{"a@example.com"},
		Title:       "Logo design",
		Client:      "ACME",
		Total:       decimal.RequireFromString("42.5"),
		Currency:    "USD",
		Status:      domain.StatusUnpaid,
		Date:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Notes:       "net 30",
		ReceiptURL:  "https://files.test/r.png",
		PayableLink: "https://paypal.me/jdoe/42.50USD",
		ShareURL:    "https://ioweyou.test/pay/tok",
	}
}

func TestComposerSubject(t *testing.T) {
	c := NewComposer()
	got := c.Subject(sampleNotification())
	want := "Invoice: Logo design — $42.50"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	eur := sampleNotification()
	eur.Currency = "eur"
	got = c.Subject(eur)
	want = "Invoice: Logo design — 42.50 EUR"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestComposerHTML(t *testing.T) {
	c := NewComposer()
	html, err := c.HTML(sampleNotification())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Logo design",
		"ACME",
		"42.50 USD",
		"Unpaid",
		"2026-03-01",
		"net 30",
		`href="https://paypal.me/jdoe/42.50USD"`,
		`href="https://ioweyou.test/pay/tok"`,
		`href="https://files.test/r.png"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q", want)
		}
	}
}

func TestComposerHTMLEscapesNotes(t *testing.T) {
	c := NewComposer()
	n := sampleNotification()
	n.Notes = `<script>alert("x")</script>`
	html, err := c.HTML(n)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("notes must be escaped")
	}
}

func TestComposerTextOmitsEmptyLines(t *testing.T) {
	c := NewComposer()
	n := sampleNotification()
	n.Notes = ""
	n.ReceiptURL = ""
	text := c.Text(n)
	if strings.Contains(text, "Notes:") || strings.Contains(text, "Receipt:") {
		t.Fatalf("empty fields must be omitted:\n%s", text)
	}
	if !strings.Contains(text, "Pay now: https://paypal.me/jdoe/42.50USD") {
		t.Fatalf("missing payable link:\n%s", text)
	}
}
