package export

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"tradeops/internal/core"
	"tradeops/internal/ledger"
)

func sampleStatement(t *testing.T) ledger.Statement {
	t.Helper()
	rows := []core.InvoiceRow{
		{Date: core.NewDate(2026, time.January, 10), DueDate: core.NewDate(2026, time.February, 9),
			Number: "INV-1", Customer: "Acme", Debit: core.Money{Cents: 10000}, Matching: "M1"},
		{Date: core.NewDate(2026, time.February, 1),
			Number: "PAY-1", Customer: "Acme", Credit: core.Money{Cents: 4000}, Matching: "M1"},
	}
	asOf := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	return ledger.BuildStatement("Acme", rows, asOf)
}

func TestStatementPDF(t *testing.T) {
	pdf, err := StatementPDF(sampleStatement(t))
	if err != nil {
		t.Fatalf("StatementPDF: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("empty PDF output")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", pdf[:8])
	}
}

func TestStatementTitleIsASCII(t *testing.T) {
	title := statementTitle("Acme Trading")
	if title != "Customer Statement - Acme Trading" {
		t.Errorf("title = %q", title)
	}
	for _, r := range statementTitle("Beta") {
		if r > 127 {
			t.Fatalf("title contains non-ASCII rune %q", r)
		}
	}
}

func TestReceiptVoucherPDF(t *testing.T) {
	pdf, err := ReceiptVoucherPDF(core.CashReceipt{
		Date:     core.NewDate(2026, time.March, 5),
		Number:   "RCV-9",
		Customer: "Acme",
		Amount:   core.Money{Cents: 25000},
		Method:   "bank transfer",
	})
	if err != nil {
		t.Fatalf("ReceiptVoucherPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output does not look like a PDF")
	}
}

func TestStatementXLSX_TotalsSurviveRoundTrip(t *testing.T) {
	st := sampleStatement(t)

	data, err := StatementXLSX(st)
	if err != nil {
		t.Fatalf("StatementXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Statement")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	// header + 2 lines + blank + totals
	if len(rows) < 4 {
		t.Fatalf("got %d rows, want at least 4", len(rows))
	}

	totals := rows[len(rows)-1]
	got, err := strconv.ParseFloat(totals[5], 64)
	if err != nil {
		t.Fatalf("parse open balance %q: %v", totals[5], err)
	}
	want := float64(st.OpenCents) / 100
	if got != want {
		t.Fatalf("open balance = %v, want %v", got, want)
	}
}

func TestAgingXLSX_GrandTotal(t *testing.T) {
	asOf := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	reports := map[string]ledger.AgingReport{
		"Acme": {AsOf: asOf, Cents: [6]int64{0, 6000, 0, 0, 0, 0}, TotalCents: 6000},
		"Beta": {AsOf: asOf, Cents: [6]int64{78000, 0, 0, 0, 0, 0}, TotalCents: 78000},
	}

	data, err := AgingXLSX(asOf, reports, []string{"Acme", "Beta"})
	if err != nil {
		t.Fatalf("AgingXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Aging")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	last := rows[3]
	if last[0] != "Total" {
		t.Fatalf("last row label = %q, want Total", last[0])
	}
	got, err := strconv.ParseFloat(last[len(last)-1], 64)
	if err != nil {
		t.Fatalf("parse grand total %q: %v", last[len(last)-1], err)
	}
	if got != 840 {
		t.Fatalf("grand total = %v, want 840", got)
	}
}

func TestFileName(t *testing.T) {
	asOf := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		prefix  string
		subject string
		want    string
	}{
		{"statement", "Acme Trading", "statement-acme-trading-2026-08-29"},
		{"aging", "", "aging-2026-08-29"},
		{"statement", "Sénior & Co.", "statement-s-nior-co-2026-08-29"},
	}
	for _, tt := range tests {
		if got := fileName(tt.prefix, tt.subject, asOf); got != tt.want {
			t.Errorf("fileName(%q, %q) = %q, want %q", tt.prefix, tt.subject, got, tt.want)
		}
	}
}
