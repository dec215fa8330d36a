package core

import (
	"errors"
	"strings"
	"time"
)

const (
	NoteReceivable NoteKind = "receivable"
	NotePayable    NoteKind = "payable"

	NoteOpen    NoteStatus = "open"
	NoteSettled NoteStatus = "settled"
)

type (
	NoteKind   string
	NoteStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// InvoiceRow is one customer-ledger transaction. A row is either a
	// charge (Debit > 0) or a payment (Credit > 0). Matching is a free-text
	// key linking a payment to the invoice rows it settles; empty means
	// unmatched.
	InvoiceRow struct {
		Date     Date
		DueDate  Date
		Number   string
		Customer string
		Debit    Money
		Credit   Money
		Matching string
	}

	Customer struct {
		Name      string
		Email     string
		Phone     string
		TermsDays int
	}

	InventoryItem struct {
		SKU          string
		Name         string
		Quantity     int64
		ReorderLevel int64
		UnitCost     Money
		Supplier     string
	}

	PayrollEntry struct {
		Date          Date
		Employee      string
		Hours         float64
		OvertimeHours float64
		HourlyRate    Money
		Note          string
	}

	CashReceipt struct {
		Date     Date
		Number   string
		Customer string
		Amount   Money
		Method   string
		Memo     string
	}

	// PromissoryNote is a receivable or payable note tracked outside the
	// main ledger tab.
	PromissoryNote struct {
		Date     Date
		DueDate  Date
		Number   string
		Customer string
		Amount   Money
		Kind     NoteKind
		Status   NoteStatus
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCustomer = errors.New("empty customer name")
	ErrEmptyNumber   = errors.New("empty document number")
	ErrEmptySKU      = errors.New("empty sku")
	ErrEmptyEmployee = errors.New("empty employee name")
	ErrBothSides     = errors.New("row cannot carry both debit and credit")

	ErrNegativeStock = errors.New("stock cannot go below zero")
)

// NewDate creates a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a sheet date cell. Accepted layouts are ISO (2006-01-02)
// and the legacy day-first form (02/01/2006). A blank or unparseable cell
// yields the zero Date; callers treat that as "absent" rather than an error.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}
		}
	}
	return Date{}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date for sheet cells; zero dates render as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r InvoiceRow) Validate() error {
	if strings.TrimSpace(r.Customer) == "" {
		return ErrEmptyCustomer
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if r.Debit.Cents > 0 && r.Credit.Cents > 0 {
		return ErrBothSides
	}
	if r.Debit.Cents <= 0 && r.Credit.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Net returns debit minus credit in cents.
func (r InvoiceRow) Net() int64 {
	return r.Debit.Cents - r.Credit.Cents
}

// EffectiveDue is the date aging runs against: DueDate when present,
// otherwise the transaction date.
func (r InvoiceRow) EffectiveDue() Date {
	if !r.DueDate.IsZero() {
		return r.DueDate
	}
	return r.Date
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCustomer
	}
	if c.TermsDays < 0 {
		return errors.New("negative payment terms")
	}
	return nil
}

func (it InventoryItem) Validate() error {
	if strings.TrimSpace(it.SKU) == "" {
		return ErrEmptySKU
	}
	if strings.TrimSpace(it.Name) == "" {
		return errors.New("empty item name")
	}
	if it.Quantity < 0 || it.ReorderLevel < 0 {
		return errors.New("negative quantity")
	}
	return nil
}

// NeedsReorder reports whether the stock level has reached the reorder
// threshold.
func (it InventoryItem) NeedsReorder() bool {
	return it.ReorderLevel > 0 && it.Quantity <= it.ReorderLevel
}

func (p PayrollEntry) Validate() error {
	if strings.TrimSpace(p.Employee) == "" {
		return ErrEmptyEmployee
	}
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if p.Hours < 0 || p.OvertimeHours < 0 {
		return errors.New("negative hours")
	}
	if p.Hours == 0 && p.OvertimeHours == 0 {
		return errors.New("no hours logged")
	}
	return nil
}

func (cr CashReceipt) Validate() error {
	if strings.TrimSpace(cr.Number) == "" {
		return ErrEmptyNumber
	}
	if strings.TrimSpace(cr.Customer) == "" {
		return ErrEmptyCustomer
	}
	if err := cr.Date.Validate(); err != nil {
		return err
	}
	return cr.Amount.Validate()
}

func (n PromissoryNote) Validate() error {
	if strings.TrimSpace(n.Number) == "" {
		return ErrEmptyNumber
	}
	if strings.TrimSpace(n.Customer) == "" {
		return ErrEmptyCustomer
	}
	if err := n.Date.Validate(); err != nil {
		return err
	}
	if n.Kind != NoteReceivable && n.Kind != NotePayable {
		return errors.New("invalid note kind")
	}
	if n.Status != NoteOpen && n.Status != NoteSettled {
		return errors.New("invalid note status")
	}
	return n.Amount.Validate()
}
