package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"tradeops/internal/ledger"
)

// StatementXLSX renders a customer statement workbook with one sheet of
// ledger lines and one aging summary sheet.
func StatementXLSX(st ledger.Statement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Statement"
	f.SetSheetName("Sheet1", sheet)

	header := []any{"Date", "Due Date", "Number", "Debit", "Credit", "Balance", "Status"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, l := range st.Lines {
		status := "settled"
		if l.Open {
			status = "open"
		}
		row := []any{
			formatDate(l.Row.Date),
			formatDate(l.Row.DueDate),
			l.Row.Number,
			centsToFloat(l.Row.Debit.Cents),
			centsToFloat(l.Row.Credit.Cents),
			centsToFloat(l.Balance),
			status,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	totalRow := []any{"", "", "Open balance", "", "", centsToFloat(st.OpenCents), ""}
	cell := fmt.Sprintf("A%d", len(st.Lines)+3)
	if err := f.SetSheetRow(sheet, cell, &totalRow); err != nil {
		return nil, fmt.Errorf("write totals: %w", err)
	}

	if err := writeAgingSheet(f, map[string]ledger.AgingReport{st.Customer: st.Aging}, []string{st.Customer}); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

// AgingXLSX renders the company-wide aging report as a workbook.
func AgingXLSX(asOf time.Time, reports map[string]ledger.AgingReport, order []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Aging")
	if err := writeAgingRows(f, "Aging", reports, order); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

func writeAgingSheet(f *excelize.File, reports map[string]ledger.AgingReport, order []string) error {
	const sheet = "Aging"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create aging sheet: %w", err)
	}
	return writeAgingRows(f, sheet, reports, order)
}

func writeAgingRows(f *excelize.File, sheet string, reports map[string]ledger.AgingReport, order []string) error {
	header := []any{"Customer"}
	for _, b := range ledger.Buckets() {
		header = append(header, b.String())
	}
	header = append(header, "Total")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write aging header: %w", err)
	}

	var grand ledger.AgingReport
	line := 2
	for _, name := range order {
		rep, ok := reports[name]
		if !ok {
			continue
		}
		row := []any{name}
		for _, b := range ledger.Buckets() {
			row = append(row, centsToFloat(rep.Cents[b]))
			grand.Cents[b] += rep.Cents[b]
		}
		row = append(row, centsToFloat(rep.TotalCents))
		grand.TotalCents += rep.TotalCents

		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", line), &row); err != nil {
			return fmt.Errorf("write aging row %d: %w", line, err)
		}
		line++
	}

	total := []any{"Total"}
	for _, b := range ledger.Buckets() {
		total = append(total, centsToFloat(grand.Cents[b]))
	}
	total = append(total, centsToFloat(grand.TotalCents))
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", line), &total); err != nil {
		return fmt.Errorf("write aging totals: %w", err)
	}

	return nil
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func centsToFloat(cents int64) float64 {
	return float64(cents) / 100
}
