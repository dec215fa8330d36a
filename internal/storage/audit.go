// Package storage keeps the audit trail of spreadsheet mutations in a
// local SQLite database. The spreadsheet stays the book of record; this
// is the durable history of who changed what and when.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type AuditEvent struct {
	ID         string
	Entity     string
	Action     string
	Ref        string
	Actor      string
	Detail     string
	OccurredAt time.Time
}

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(dbPath string) (*AuditRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateAuditSchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &AuditRepository{db: db}, nil
}

func (r *AuditRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record inserts an audit event. Duplicate IDs are ignored so a requeued
// delivery cannot double-write.
func (r *AuditRepository) Record(ctx context.Context, e AuditEvent) error {
	if e.ID == "" {
		return fmt.Errorf("audit event ID is required")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, entity, action, ref, actor, detail, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		e.ID, e.Entity, e.Action, e.Ref, e.Actor, e.Detail, e.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	slog.InfoContext(ctx, "audit event recorded",
		"event_id", e.ID,
		"entity", e.Entity,
		"action", e.Action)

	return nil
}

// List returns the most recent events, newest first. An empty entity
// returns events for all entities.
func (r *AuditRepository) List(ctx context.Context, entity string, limit int) ([]AuditEvent, error) {
	if limit < 1 {
		limit = 50
	}

	query := `
		SELECT id, entity, action, ref, actor, detail, occurred_at
		FROM audit_events`
	args := []any{}
	if entity != "" {
		query += ` WHERE entity = ?`
		args = append(args, entity)
	}
	query += ` ORDER BY occurred_at DESC, recorded_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.Entity, &e.Action, &e.Ref, &e.Actor, &e.Detail, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}

// Count returns the total number of recorded events.
func (r *AuditRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}
