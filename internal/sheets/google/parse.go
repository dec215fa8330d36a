package google

import (
	"strconv"
	"strings"

	"tradeops/internal/core"
)

// Positional row codecs. Column order is the tab's schema and must not
// change:
//
//	Ledger    A:G  Date | DueDate | Number | Customer | Debit | Credit | Matching
//	Customers A:D  Name | Email | Phone | TermsDays
//	Inventory A:F  SKU | Name | Quantity | ReorderLevel | UnitCost | Supplier
//	Payroll   A:F  Date | Employee | Hours | OvertimeHours | HourlyRate | Note
//	Receipts  A:F  Date | Number | Customer | Amount | Method | Memo
//	Notes     A:G  Date | DueDate | Number | Customer | Amount | Kind | Status
//
// Parsers are best-effort: header rows and blank rows report ok=false,
// malformed cells degrade to zero values.

func cell(cols []string, idx int) string {
	if idx < 0 || idx >= len(cols) {
		return ""
	}
	return strings.TrimSpace(cols[idx])
}

func intCell(cols []string, idx int) int64 {
	n, err := strconv.ParseInt(cell(cols, idx), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func floatCell(cols []string, idx int) float64 {
	s := strings.Replace(cell(cols, idx), ",", ".", 1)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInvoiceRow(cols []string) (core.InvoiceRow, bool) {
	if len(cols) == 0 || strings.EqualFold(cell(cols, 0), "Date") {
		return core.InvoiceRow{}, false
	}
	r := core.InvoiceRow{
		Date:     core.ParseDate(cell(cols, 0)),
		DueDate:  core.ParseDate(cell(cols, 1)),
		Number:   cell(cols, 2),
		Customer: cell(cols, 3),
		Debit:    core.Money{Cents: core.CentsOrZero(cell(cols, 4))},
		Credit:   core.Money{Cents: core.CentsOrZero(cell(cols, 5))},
		Matching: cell(cols, 6),
	}
	if r.Customer == "" && r.Number == "" && r.Debit.Cents == 0 && r.Credit.Cents == 0 {
		return core.InvoiceRow{}, false
	}
	return r, true
}

func invoiceRowValues(r core.InvoiceRow) []any {
	return []any{
		r.Date.String(),
		r.DueDate.String(),
		r.Number,
		r.Customer,
		core.FormatCents(r.Debit.Cents),
		core.FormatCents(r.Credit.Cents),
		r.Matching,
	}
}

func parseCustomer(cols []string) (core.Customer, bool) {
	name := cell(cols, 0)
	if name == "" || strings.EqualFold(name, "Name") {
		return core.Customer{}, false
	}
	return core.Customer{
		Name:      name,
		Email:     cell(cols, 1),
		Phone:     cell(cols, 2),
		TermsDays: int(intCell(cols, 3)),
	}, true
}

func parseInventoryItem(cols []string) (core.InventoryItem, bool) {
	sku := cell(cols, 0)
	if sku == "" || strings.EqualFold(sku, "SKU") {
		return core.InventoryItem{}, false
	}
	return core.InventoryItem{
		SKU:          sku,
		Name:         cell(cols, 1),
		Quantity:     intCell(cols, 2),
		ReorderLevel: intCell(cols, 3),
		UnitCost:     core.Money{Cents: core.CentsOrZero(cell(cols, 4))},
		Supplier:     cell(cols, 5),
	}, true
}

func inventoryRowValues(it core.InventoryItem) []any {
	return []any{
		it.SKU,
		it.Name,
		it.Quantity,
		it.ReorderLevel,
		core.FormatCents(it.UnitCost.Cents),
		it.Supplier,
	}
}

func parsePayrollEntry(cols []string) (core.PayrollEntry, bool) {
	date := core.ParseDate(cell(cols, 0))
	employee := cell(cols, 1)
	if date.IsZero() || employee == "" {
		return core.PayrollEntry{}, false
	}
	return core.PayrollEntry{
		Date:          date,
		Employee:      employee,
		Hours:         floatCell(cols, 2),
		OvertimeHours: floatCell(cols, 3),
		HourlyRate:    core.Money{Cents: core.CentsOrZero(cell(cols, 4))},
		Note:          cell(cols, 5),
	}, true
}

func payrollRowValues(e core.PayrollEntry) []any {
	return []any{
		e.Date.String(),
		e.Employee,
		e.Hours,
		e.OvertimeHours,
		core.FormatCents(e.HourlyRate.Cents),
		e.Note,
	}
}

func parseCashReceipt(cols []string) (core.CashReceipt, bool) {
	date := core.ParseDate(cell(cols, 0))
	number := cell(cols, 1)
	if date.IsZero() || number == "" {
		return core.CashReceipt{}, false
	}
	return core.CashReceipt{
		Date:     date,
		Number:   number,
		Customer: cell(cols, 2),
		Amount:   core.Money{Cents: core.CentsOrZero(cell(cols, 3))},
		Method:   cell(cols, 4),
		Memo:     cell(cols, 5),
	}, true
}

func receiptRowValues(r core.CashReceipt) []any {
	return []any{
		r.Date.String(),
		r.Number,
		r.Customer,
		core.FormatCents(r.Amount.Cents),
		r.Method,
		r.Memo,
	}
}

func parsePromissoryNote(cols []string) (core.PromissoryNote, bool) {
	date := core.ParseDate(cell(cols, 0))
	number := cell(cols, 2)
	if date.IsZero() || number == "" {
		return core.PromissoryNote{}, false
	}
	kind := core.NoteKind(strings.ToLower(cell(cols, 5)))
	if kind != core.NoteReceivable && kind != core.NotePayable {
		kind = core.NoteReceivable
	}
	status := core.NoteStatus(strings.ToLower(cell(cols, 6)))
	if status != core.NoteOpen && status != core.NoteSettled {
		status = core.NoteOpen
	}
	return core.PromissoryNote{
		Date:     date,
		DueDate:  core.ParseDate(cell(cols, 1)),
		Number:   number,
		Customer: cell(cols, 3),
		Amount:   core.Money{Cents: core.CentsOrZero(cell(cols, 4))},
		Kind:     kind,
		Status:   status,
	}, true
}

func noteRowValues(n core.PromissoryNote) []any {
	return []any{
		n.Date.String(),
		n.DueDate.String(),
		n.Number,
		n.Customer,
		core.FormatCents(n.Amount.Cents),
		string(n.Kind),
		string(n.Status),
	}
}
