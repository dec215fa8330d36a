// Package backend selects and constructs the data gateway the server
// runs against: the live spreadsheet or the in-memory fake.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tradeops/internal/config"
	"tradeops/internal/sheets"
	gsheet "tradeops/internal/sheets/google"
	"tradeops/internal/sheets/memory"
)

// Store bundles every port the HTTP layer needs.
type Store interface {
	sheets.LedgerStore
	sheets.CustomerDirectory
	sheets.InventoryStore
	sheets.PayrollStore
	sheets.ReceiptStore
	sheets.NoteStore
}

// Type names a backend implementation.
type Type string

const (
	MemoryBackend Type = "memory"
	SheetsBackend Type = "sheets"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SheetsBackend:
		return true
	default:
		return false
	}
}

// New builds the store named by cfg.DataBackend. The memory backend ships
// seeded so a bare `DATA_BACKEND=memory` run has data to show.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := Type(cfg.DataBackend)
	switch t {
	case MemoryBackend:
		logger.Info("initialized memory backend")
		return memory.NewSeeded(), nil
	case SheetsBackend:
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		logger.Info("initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return cli, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}
