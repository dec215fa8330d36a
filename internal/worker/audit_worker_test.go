package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradeops/internal/amqp"
	"tradeops/internal/storage"
)

type fakeRecorder struct {
	events []storage.AuditEvent
	err    error
}

func (f *fakeRecorder) Record(_ context.Context, e storage.AuditEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func TestHandleChangeEvent(t *testing.T) {
	rec := &fakeRecorder{}
	w := NewAuditWorker(rec)

	event := &amqp.ChangeEvent{
		ID:        "evt-1",
		Entity:    amqp.EntityLedger,
		Action:    amqp.ActionAppend,
		Ref:       "Ledger!A9:G9",
		Actor:     "api",
		Timestamp: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}

	if err := w.HandleChangeEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleChangeEvent: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
	got := rec.events[0]
	if got.ID != "evt-1" || got.Entity != "ledger" || got.Ref != "Ledger!A9:G9" {
		t.Fatalf("recorded event = %+v", got)
	}
	if !got.OccurredAt.Equal(event.Timestamp) {
		t.Fatalf("OccurredAt = %v, want %v", got.OccurredAt, event.Timestamp)
	}
}

func TestHandleChangeEvent_MissingID(t *testing.T) {
	w := NewAuditWorker(&fakeRecorder{})
	err := w.HandleChangeEvent(context.Background(), &amqp.ChangeEvent{Entity: amqp.EntityNote})
	if err == nil {
		t.Fatal("expected error for event without ID")
	}
}

func TestHandleChangeEvent_RecorderError(t *testing.T) {
	wantErr := errors.New("disk full")
	w := NewAuditWorker(&fakeRecorder{err: wantErr})

	err := w.HandleChangeEvent(context.Background(), &amqp.ChangeEvent{ID: "evt-2", Entity: amqp.EntityReceipt})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
}
