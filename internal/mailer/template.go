package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"github.com/shopspring/decimal"
)

const invoiceEmailTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Title}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #111827;
      background: #ffffff;
    }
    .invoice {
      max-width: 560px;
      margin: 0 auto;
    }
    .header {
      border-bottom: 2px solid #111827;
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .label {
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      font-size: 11px;
    }
    .row {
      margin-bottom: 12px;
      font-size: 14px;
    }
    .total {
      font-size: 20px;
      font-weight: bold;
    }
    .button {
      display: inline-block;
      margin: 16px 8px 16px 0;
      padding: 10px 18px;
      background: #111827;
      color: #ffffff;
      text-decoration: none;
      border-radius: 6px;
      font-size: 14px;
    }
    .footer {
      border-top: 1px solid #e5e7eb;
      padding-top: 16px;
      font-size: 12px;
      color: #6b7280;
    }
  </style>
</head>
<body>
  <div class="invoice">
    <div class="header">
      <div class="label">Invoice</div>
      <div><strong>{{.Title}}</strong></div>
      <div>For: {{.Client}}</div>
    </div>

    <div class="row total">{{formatMoney .Total .Currency}}</div>
    <div class="row">Status: {{.Status}}</div>
    <div class="row">Date: {{formatDate .Date}}</div>
    {{if .Notes}}<div class="row">{{.Notes}}</div>{{end}}

    <div>
      {{if .PayableLink}}<a class="button" href="{{.PayableLink}}">Pay now</a>{{end}}
      {{if .ShareURL}}<a class="button" href="{{.ShareURL}}">View invoice</a>{{end}}
    </div>

    <div class="footer">
      {{if .ReceiptURL}}<div>Receipt: <a href="{{.ReceiptURL}}">{{.ReceiptURL}}</a></div>{{end}}
      <div>This invoice was sent via ioweyou.</div>
    </div>
  </div>
</body>
</html>
`

// Composer renders invoice notifications into an email subject plus HTML
// and plain-text bodies.
type Composer struct {
	tpl *template.Template
}

func NewComposer() *Composer {
	funcs := template.FuncMap{
		"formatMoney": formatMoney,
		"formatDate":  formatDate,
	}
	return &Composer{
		tpl: template.Must(template.New("invoice_email").Funcs(funcs).Parse(invoiceEmailTemplate)),
	}
}

func (c *Composer) Subject(n domain.Notification) string {
	return fmt.Sprintf("Invoice: %s — %s", n.Title, formatAmount(n.Total, n.Currency))
}

func (c *Composer) HTML(n domain.Notification) (string, error) {
	var buf bytes.Buffer
	if err := c.tpl.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Text is the plain-text alternative for clients that reject HTML.
func (c *Composer) Text(n domain.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Invoice: %s\n", n.Title)
	fmt.Fprintf(&b, "For: %s\n", n.Client)
	fmt.Fprintf(&b, "Total: %s\n", formatMoney(n.Total, n.Currency))
	fmt.Fprintf(&b, "Status: %s\n", n.Status)
	fmt.Fprintf(&b, "Date: %s\n", formatDate(n.Date))
	if n.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", n.Notes)
	}
	if n.PayableLink != "" {
		fmt.Fprintf(&b, "Pay now: %s\n", n.PayableLink)
	}
	if n.ShareURL != "" {
		fmt.Fprintf(&b, "View invoice: %s\n", n.ShareURL)
	}
	if n.ReceiptURL != "" {
		fmt.Fprintf(&b, "Receipt: %s\n", n.ReceiptURL)
	}
	return b.String()
}

func formatMoney(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + normalizeCurrency(currency)
}

// formatAmount is the subject-line shape: a dollar sign for the default
// currency, amount plus code for everything else.
func formatAmount(amount decimal.Decimal, currency string) string {
	cur := normalizeCurrency(currency)
	if cur == "USD" {
		return "$" + amount.StringFixed(2)
	}
	return amount.StringFixed(2) + " " + cur
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "USD"
	}
	return currency
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02")
}
