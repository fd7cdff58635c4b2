package payout

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNotConfigured means the owner has no payout handle set. It is a hard
// precondition for any sharing operation.
var ErrNotConfigured = errors.New("payout_not_configured")

// DefaultCurrency is used when the owner has no currency preference.
const DefaultCurrency = "USD"

// Settings is the subset of owner settings the resolver reads.
type Settings struct {
	// Handle is either a bare payment-provider username or a full URL.
	Handle string
	// Currency is the owner's preferred currency code, possibly empty.
	Currency string
}

// Snapshot is the frozen-at-publish-time payout info. Later changes to the
// owner's settings never alter invoices already carrying a snapshot.
type Snapshot struct {
	Base     string
	Currency string
}

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// Resolver derives payable link bases from owner settings.
type Resolver struct {
	providerBase string
}

// NewResolver takes the payment-provider domain used to synthesize link
// bases from bare handles, e.g. https://paypal.me.
func NewResolver(providerBase string) *Resolver {
	return &Resolver{providerBase: strings.TrimRight(strings.TrimSpace(providerBase), "/")}
}

// Resolve normalizes the owner's payout settings into a snapshot.
//
// A handle that already carries a URI scheme is used verbatim minus any
// trailing slash; anything else is treated as a provider username and joined
// onto the provider domain with leading path separators stripped.
func (r *Resolver) Resolve(settings Settings) (Snapshot, error) {
	handle := strings.TrimSpace(settings.Handle)
	if handle == "" {
		return Snapshot{}, ErrNotConfigured
	}

	var base string
	if schemeRe.MatchString(handle) {
		base = strings.TrimRight(handle, "/")
	} else {
		base = r.providerBase + "/" + strings.TrimLeft(handle, "/")
	}

	currency := strings.ToUpper(strings.TrimSpace(settings.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	return Snapshot{Base: base, Currency: currency}, nil
}
