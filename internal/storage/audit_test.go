package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *AuditRepository {
	t.Helper()
	repo, err := NewAuditRepository(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("NewAuditRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestAuditRepository_RecordAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []AuditEvent{
		{ID: "e1", Entity: "ledger", Action: "append", Ref: "Ledger!A5:G5", Actor: "api", OccurredAt: base},
		{ID: "e2", Entity: "inventory", Action: "adjust", Ref: "SKU-100", Actor: "warehouse", OccurredAt: base.Add(time.Minute)},
		{ID: "e3", Entity: "ledger", Action: "append", Ref: "Ledger!A6:G6", Actor: "api", OccurredAt: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s): %v", e.ID, err)
		}
	}

	got, err := repo.List(ctx, "", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "e3" || got[2].ID != "e1" {
		t.Fatalf("order = [%s %s %s], want newest first", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestAuditRepository_ListFiltersByEntity(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, e := range []AuditEvent{
		{ID: "a", Entity: "ledger", Action: "append", OccurredAt: now},
		{ID: "b", Entity: "note", Action: "settle", OccurredAt: now},
	} {
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := repo.List(ctx, "note", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("got = %+v, want only note event", got)
	}
}

func TestAuditRepository_RecordIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := AuditEvent{ID: "dup", Entity: "receipt", Action: "append", OccurredAt: time.Now().UTC()}
	if err := repo.Record(ctx, e); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := repo.Record(ctx, e); err != nil {
		t.Fatalf("second Record: %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}
}

func TestAuditRepository_RecordRequiresID(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Record(context.Background(), AuditEvent{Entity: "ledger"}); err == nil {
		t.Fatal("Record without ID should fail")
	}
}
