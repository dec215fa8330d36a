// Package memory is an in-memory stand-in for the spreadsheet gateway.
// It backs local development and the handler tests; semantics mirror the
// sheet tabs, including append-only ledgers and last-write-wins updates.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tradeops/internal/core"
	ports "tradeops/internal/sheets"
)

type Store struct {
	mu        sync.Mutex
	invoices  []core.InvoiceRow
	customers []core.Customer
	inventory []core.InventoryItem
	payroll   []core.PayrollEntry
	receipts  []core.CashReceipt
	notes     []core.PromissoryNote
}

var (
	_ ports.LedgerStore       = (*Store)(nil)
	_ ports.CustomerDirectory = (*Store)(nil)
	_ ports.InventoryStore    = (*Store)(nil)
	_ ports.PayrollStore      = (*Store)(nil)
	_ ports.ReceiptStore      = (*Store)(nil)
	_ ports.NoteStore         = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store preloaded with a small demo book, enough to
// exercise every endpoint without a spreadsheet.
func NewSeeded() *Store {
	s := New()
	s.customers = []core.Customer{
		{Name: "Acme Trading", Email: "ar@acme.example", TermsDays: 30},
		{Name: "Beta Srl", Email: "admin@beta.example", TermsDays: 60},
	}
	s.invoices = []core.InvoiceRow{
		{Date: core.NewDate(2026, time.January, 10), DueDate: core.NewDate(2026, time.February, 9),
			Number: "INV-1001", Customer: "Acme Trading", Debit: core.Money{Cents: 125000}, Matching: "M-1001"},
		{Date: core.NewDate(2026, time.February, 20),
			Number: "PAY-2001", Customer: "Acme Trading", Credit: core.Money{Cents: 50000}, Matching: "M-1001"},
		{Date: core.NewDate(2026, time.March, 3), DueDate: core.NewDate(2026, time.April, 2),
			Number: "INV-1002", Customer: "Beta Srl", Debit: core.Money{Cents: 78000}},
	}
	s.inventory = []core.InventoryItem{
		{SKU: "SKU-100", Name: "Bolt M8", Quantity: 40, ReorderLevel: 50, UnitCost: core.Money{Cents: 35}, Supplier: "Ferro Srl"},
		{SKU: "SKU-200", Name: "Plate 20x20", Quantity: 320, ReorderLevel: 100, UnitCost: core.Money{Cents: 410}, Supplier: "Ferro Srl"},
	}
	return s
}

func (s *Store) ListInvoices(_ context.Context) ([]core.InvoiceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.InvoiceRow(nil), s.invoices...), nil
}

func (s *Store) AppendInvoice(_ context.Context, row core.InvoiceRow) (string, error) {
	if err := row.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, row)
	return fmt.Sprintf("mem:ledger:%d", len(s.invoices)), nil
}

func (s *Store) ListCustomers(_ context.Context) ([]core.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Customer(nil), s.customers...), nil
}

// AddCustomer is used by seeding and tests; the sheet tab is maintained by
// hand and has no write endpoint.
func (s *Store) AddCustomer(c core.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c)
}

func (s *Store) ListInventory(_ context.Context) ([]core.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.InventoryItem(nil), s.inventory...), nil
}

func (s *Store) AppendItem(_ context.Context, item core.InventoryItem) (string, error) {
	if err := item.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory = append(s.inventory, item)
	return fmt.Sprintf("mem:inventory:%d", len(s.inventory)), nil
}

func (s *Store) AdjustQuantity(_ context.Context, sku string, delta int64) (core.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inventory {
		if !strings.EqualFold(s.inventory[i].SKU, strings.TrimSpace(sku)) {
			continue
		}
		next := s.inventory[i].Quantity + delta
		if next < 0 {
			return core.InventoryItem{}, fmt.Errorf("sku %s: %w", sku, core.ErrNegativeStock)
		}
		s.inventory[i].Quantity = next
		return s.inventory[i], nil
	}
	return core.InventoryItem{}, fmt.Errorf("sku %s: %w", sku, ports.ErrNotFound)
}

func (s *Store) ListPayroll(_ context.Context, year int, month time.Month) ([]core.PayrollEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.PayrollEntry
	for _, e := range s.payroll {
		if e.Date.Year() == year && e.Date.Month() == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) AppendPayroll(_ context.Context, e core.PayrollEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payroll = append(s.payroll, e)
	return fmt.Sprintf("mem:payroll:%d", len(s.payroll)), nil
}

func (s *Store) ListReceipts(_ context.Context) ([]core.CashReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CashReceipt(nil), s.receipts...), nil
}

func (s *Store) AppendReceipt(_ context.Context, r core.CashReceipt) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, r)
	return fmt.Sprintf("mem:receipts:%d", len(s.receipts)), nil
}

func (s *Store) ListNotes(_ context.Context) ([]core.PromissoryNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.PromissoryNote(nil), s.notes...), nil
}

func (s *Store) AppendNote(_ context.Context, n core.PromissoryNote) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
	return fmt.Sprintf("mem:notes:%d", len(s.notes)), nil
}

func (s *Store) SettleNote(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if strings.EqualFold(s.notes[i].Number, strings.TrimSpace(number)) {
			s.notes[i].Status = core.NoteSettled
			return nil
		}
	}
	return fmt.Errorf("note %s: %w", number, ports.ErrNotFound)
}
