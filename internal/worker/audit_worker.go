package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tradeops/internal/amqp"
	"tradeops/internal/storage"
)

// Recorder persists audit events.
type Recorder interface {
	Record(ctx context.Context, e storage.AuditEvent) error
}

// AuditWorker drains change events off the queue into the audit trail.
type AuditWorker struct {
	recorder Recorder
}

func NewAuditWorker(recorder Recorder) *AuditWorker {
	return &AuditWorker{recorder: recorder}
}

// HandleChangeEvent processes a single change event from AMQP.
func (w *AuditWorker) HandleChangeEvent(ctx context.Context, event *amqp.ChangeEvent) error {
	if event.ID == "" {
		return fmt.Errorf("change event has no ID")
	}

	slog.InfoContext(ctx, "processing change event",
		"event_id", event.ID,
		"entity", event.Entity,
		"action", event.Action)

	err := w.recorder.Record(ctx, storage.AuditEvent{
		ID:         event.ID,
		Entity:     event.Entity,
		Action:     event.Action,
		Ref:        event.Ref,
		Actor:      event.Actor,
		Detail:     event.Detail,
		OccurredAt: event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	return nil
}

// Run consumes change events until ctx is cancelled.
func (w *AuditWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeChangeEvents(ctx, func(event *amqp.ChangeEvent) error {
		return w.HandleChangeEvent(ctx, event)
	})
}
