// Package google implements the spreadsheet gateway against the Google
// Sheets API. One spreadsheet holds every business tab; all access is
// range-based and keyed by tab name, with positional columns per entity.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tradeops/internal/core"
	ports "tradeops/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	ledgerTab    string
	customersTab string
	inventoryTab string
	payrollTab   string
	receiptsTab  string
	notesTab     string
}

// Ensure interface conformance
var (
	_ ports.LedgerStore       = (*Client)(nil)
	_ ports.CustomerDirectory = (*Client)(nil)
	_ ports.InventoryStore    = (*Client)(nil)
	_ ports.PayrollStore      = (*Client)(nil)
	_ ports.ReceiptStore      = (*Client)(nil)
	_ ports.NoteStore         = (*Client)(nil)
)

// NewFromEnv creates a gateway client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service-account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS. Tab names come from LEDGER_TAB,
// CUSTOMERS_TAB, INVENTORY_TAB, PAYROLL_TAB, RECEIPTS_TAB and NOTES_TAB,
// defaulting to the English tab names of the company book.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerTab:     envTab("LEDGER_TAB", "Ledger"),
		customersTab:  envTab("CUSTOMERS_TAB", "Customers"),
		inventoryTab:  envTab("INVENTORY_TAB", "Inventory"),
		payrollTab:    envTab("PAYROLL_TAB", "Payroll"),
		receiptsTab:   envTab("RECEIPTS_TAB", "Receipts"),
		notesTab:      envTab("NOTES_TAB", "Notes"),
	}, nil
}

func envTab(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// newSheetsService initializes a Sheets Service using service-account
// credentials from the environment.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credFile != "":
		b, err := os.ReadFile(credFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) readTab(ctx context.Context, tab, cols string) ([][]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", tab, cols)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		out = append(out, toStrings(row))
	}
	return out, nil
}

func (c *Client) appendRow(ctx context.Context, tab, cols string, values []any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", tab, cols)
	vr := &gsheet.ValueRange{Values: [][]any{values}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", rng, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

func (c *Client) updateCell(ctx context.Context, tab, cell string, value any) error {
	rng := fmt.Sprintf("%s!%s", tab, cell)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// ListInvoices reads the full ledger tab. Header and blank rows are
// skipped; malformed cells degrade to zero values, never an error.
func (c *Client) ListInvoices(ctx context.Context) ([]core.InvoiceRow, error) {
	rows, err := c.readTab(ctx, c.ledgerTab, "A:G")
	if err != nil {
		return nil, err
	}
	var out []core.InvoiceRow
	for _, cols := range rows {
		if r, ok := parseInvoiceRow(cols); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *Client) AppendInvoice(ctx context.Context, row core.InvoiceRow) (string, error) {
	if err := row.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	ref, err := c.appendRow(ctx, c.ledgerTab, "A:G", invoiceRowValues(row))
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "Ledger row appended",
		"customer", row.Customer, "number", row.Number, "range", ref)
	return ref, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	rows, err := c.readTab(ctx, c.customersTab, "A:D")
	if err != nil {
		return nil, err
	}
	var out []core.Customer
	for _, cols := range rows {
		if cu, ok := parseCustomer(cols); ok {
			out = append(out, cu)
		}
	}
	return out, nil
}

func (c *Client) ListInventory(ctx context.Context) ([]core.InventoryItem, error) {
	rows, err := c.readTab(ctx, c.inventoryTab, "A:F")
	if err != nil {
		return nil, err
	}
	var out []core.InventoryItem
	for _, cols := range rows {
		if it, ok := parseInventoryItem(cols); ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *Client) AppendItem(ctx context.Context, item core.InventoryItem) (string, error) {
	if err := item.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.inventoryTab, "A:F", inventoryRowValues(item))
}

// AdjustQuantity rewrites the quantity cell of the SKU's row. Read and
// write are separate requests; concurrent edits race with last-write-wins,
// matching the rest of the gateway.
func (c *Client) AdjustQuantity(ctx context.Context, sku string, delta int64) (core.InventoryItem, error) {
	rows, err := c.readTab(ctx, c.inventoryTab, "A:F")
	if err != nil {
		return core.InventoryItem{}, err
	}
	for i, cols := range rows {
		it, ok := parseInventoryItem(cols)
		if !ok || !strings.EqualFold(it.SKU, strings.TrimSpace(sku)) {
			continue
		}
		it.Quantity += delta
		if it.Quantity < 0 {
			return core.InventoryItem{}, fmt.Errorf("sku %s: %w", sku, core.ErrNegativeStock)
		}
		// Sheet rows are 1-based; i indexes the fetched range from A1.
		cell := fmt.Sprintf("C%d", i+1)
		if err := c.updateCell(ctx, c.inventoryTab, cell, it.Quantity); err != nil {
			return core.InventoryItem{}, err
		}
		slog.InfoContext(ctx, "Inventory quantity adjusted",
			"sku", it.SKU, "delta", delta, "quantity", it.Quantity)
		return it, nil
	}
	return core.InventoryItem{}, fmt.Errorf("sku %s: %w", sku, ports.ErrNotFound)
}

func (c *Client) ListPayroll(ctx context.Context, year int, month time.Month) ([]core.PayrollEntry, error) {
	rows, err := c.readTab(ctx, c.payrollTab, "A:F")
	if err != nil {
		return nil, err
	}
	var out []core.PayrollEntry
	for _, cols := range rows {
		e, ok := parsePayrollEntry(cols)
		if !ok {
			continue
		}
		if e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (c *Client) AppendPayroll(ctx context.Context, e core.PayrollEntry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.payrollTab, "A:F", payrollRowValues(e))
}

func (c *Client) ListReceipts(ctx context.Context) ([]core.CashReceipt, error) {
	rows, err := c.readTab(ctx, c.receiptsTab, "A:F")
	if err != nil {
		return nil, err
	}
	var out []core.CashReceipt
	for _, cols := range rows {
		if r, ok := parseCashReceipt(cols); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *Client) AppendReceipt(ctx context.Context, r core.CashReceipt) (string, error) {
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.receiptsTab, "A:F", receiptRowValues(r))
}

func (c *Client) ListNotes(ctx context.Context) ([]core.PromissoryNote, error) {
	rows, err := c.readTab(ctx, c.notesTab, "A:G")
	if err != nil {
		return nil, err
	}
	var out []core.PromissoryNote
	for _, cols := range rows {
		if n, ok := parsePromissoryNote(cols); ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (c *Client) AppendNote(ctx context.Context, n core.PromissoryNote) (string, error) {
	if err := n.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendRow(ctx, c.notesTab, "A:G", noteRowValues(n))
}

func (c *Client) SettleNote(ctx context.Context, number string) error {
	rows, err := c.readTab(ctx, c.notesTab, "A:G")
	if err != nil {
		return err
	}
	for i, cols := range rows {
		n, ok := parsePromissoryNote(cols)
		if !ok || !strings.EqualFold(n.Number, strings.TrimSpace(number)) {
			continue
		}
		cell := fmt.Sprintf("G%d", i+1)
		if err := c.updateCell(ctx, c.notesTab, cell, string(core.NoteSettled)); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Note settled", "number", n.Number)
		return nil
	}
	return fmt.Errorf("note %s: %w", number, ports.ErrNotFound)
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
