package sheets

import (
	"context"
	"errors"
	"time"

	"tradeops/internal/core"
)

// ErrNotFound is returned by lookups against a tab that has no row for the
// requested key.
var ErrNotFound = errors.New("row not found")

// Ports for the spreadsheet-backed stores. Each business entity maps to one
// sheet tab; reads always fetch the full tab and parse rows positionally.
type (
	LedgerStore interface {
		// ListInvoices returns every ledger row in sheet order.
		ListInvoices(ctx context.Context) ([]core.InvoiceRow, error)
		// AppendInvoice adds a row and returns its range reference.
		AppendInvoice(ctx context.Context, row core.InvoiceRow) (rowRef string, err error)
	}

	CustomerDirectory interface {
		ListCustomers(ctx context.Context) ([]core.Customer, error)
	}

	InventoryStore interface {
		ListInventory(ctx context.Context) ([]core.InventoryItem, error)
		AppendItem(ctx context.Context, item core.InventoryItem) (rowRef string, err error)
		// AdjustQuantity applies a signed delta to the stock level of the
		// given SKU and returns the updated item.
		AdjustQuantity(ctx context.Context, sku string, delta int64) (core.InventoryItem, error)
	}

	PayrollStore interface {
		// ListPayroll returns entries for the given year and month.
		ListPayroll(ctx context.Context, year int, month time.Month) ([]core.PayrollEntry, error)
		AppendPayroll(ctx context.Context, e core.PayrollEntry) (rowRef string, err error)
	}

	ReceiptStore interface {
		ListReceipts(ctx context.Context) ([]core.CashReceipt, error)
		AppendReceipt(ctx context.Context, r core.CashReceipt) (rowRef string, err error)
	}

	NoteStore interface {
		ListNotes(ctx context.Context) ([]core.PromissoryNote, error)
		AppendNote(ctx context.Context, n core.PromissoryNote) (rowRef string, err error)
		// SettleNote flips the note's status to settled.
		SettleNote(ctx context.Context, number string) error
	}
)
