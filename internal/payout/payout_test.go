package payout

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	resolver := NewResolver("https://paypal.me")

	tests := []struct {
		name         string
		settings     Settings
		wantBase     string
		wantCurrency string
	}{
		{
			name:         "bare handle",
			settings:     Settings{Handle: "jdoe"},
			wantBase:     "https://paypal.me/jdoe",
			wantCurrency: "USD",
		},
		{
			name:         "handle with leading slashes",
			settings:     Settings{Handle: "//jdoe"},
			wantBase:     "https://paypal.me/jdoe",
			wantCurrency: "USD",
		},
		{
			name:         "full url used verbatim",
			settings:     Settings{Handle: "https://paypal.me/JadeSwanstrom", Currency: "cad"},
			wantBase:     "https://paypal.me/JadeSwanstrom",
			wantCurrency: "CAD",
		},
		{
			name:         "full url trailing slash stripped",
			settings:     Settings{Handle: "https://paypal.me/jdoe/", Currency: "eur"},
			wantBase:     "https://paypal.me/jdoe",
			wantCurrency: "EUR",
		},
		{
			name:         "currency upper-cased and trimmed",
			settings:     Settings{Handle: "jdoe", Currency: " usd "},
			wantBase:     "https://paypal.me/jdoe",
			wantCurrency: "USD",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := resolver.Resolve(tc.settings)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if snap.Base != tc.wantBase {
				t.Fatalf("expected base %q, got %q", tc.wantBase, snap.Base)
			}
			if snap.Currency != tc.wantCurrency {
				t.Fatalf("expected currency %q, got %q", tc.wantCurrency, snap.Currency)
			}
		})
	}
}

func TestResolveNotConfigured(t *testing.T) {
	resolver := NewResolver("https://paypal.me")

	for _, handle := range []string{"", "   "} {
		if _, err := resolver.Resolve(Settings{Handle: handle}); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured for handle %q, got %v", handle, err)
		}
	}
}
