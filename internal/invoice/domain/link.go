package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxRecipients caps one send; abuse/cost guard, not a product limit.
const MaxRecipients = 5

// PayableLink joins a payout base with the invoice amount and currency in
// the external provider's expected shape: {base}/{amount:.2f}{CUR}, no
// separator between amount and currency.
func PayableLink(base string, total decimal.Decimal, currency string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	return base + "/" + total.StringFixed(2) + currency
}

// SharePath is the public path for a share token, relative to the
// public-facing origin.
func SharePath(token string) string {
	return "/pay/" + token
}

// ShareURL joins the configured public origin with the share path.
func ShareURL(origin, token string) string {
	return strings.TrimRight(origin, "/") + SharePath(token)
}

// ParseRecipients splits the free-text recipient field on commas and
// newlines, trims each entry and drops empties. No address validation
// beyond that.
func ParseRecipients(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	recipients := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}
