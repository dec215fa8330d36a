// Package export renders statements and reports as PDF and XLSX
// downloads.
package export

import (
	"fmt"
	"strings"
	"time"

	"tradeops/internal/core"
	"tradeops/internal/ledger"
)

func formatDate(d core.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("02/01/2006")
}

func formatDay(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatAmount(cents int64) string {
	return core.FormatEuros(cents)
}

// StatementFileName names a statement download for the given format.
func StatementFileName(st ledger.Statement, ext string) string {
	return fileName("statement", st.Customer, st.AsOf) + "." + ext
}

// AgingFileName names an aging report download for the given format.
func AgingFileName(asOf time.Time, ext string) string {
	return fileName("aging", "", asOf) + "." + ext
}

// ReceiptFileName names a receipt voucher download.
func ReceiptFileName(r core.CashReceipt) string {
	day := r.Date.Time
	if r.Date.IsZero() {
		day = time.Now()
	}
	return fileName("receipt", r.Number, day) + ".pdf"
}

// fileName builds a download name like "statement-acme-trading-2026-08-29".
func fileName(prefix, subject string, asOf time.Time) string {
	slug := strings.ToLower(strings.TrimSpace(subject))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	slug = strings.Trim(strings.Join(strings.FieldsFunc(slug, func(r rune) bool { return r == '-' }), "-"), "-")
	if slug == "" {
		return fmt.Sprintf("%s-%s", prefix, asOf.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s-%s-%s", prefix, slug, asOf.Format("2006-01-02"))
}
