package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChangeEvent records a mutation against the book of record. The server
// publishes one per write; the audit worker persists them.
type ChangeEvent struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	Ref       string    `json:"ref"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Entities carried in ChangeEvent.Entity.
const (
	EntityLedger    = "ledger"
	EntityInventory = "inventory"
	EntityPayroll   = "payroll"
	EntityReceipt   = "receipt"
	EntityNote      = "note"
)

// Actions carried in ChangeEvent.Action.
const (
	ActionAppend = "append"
	ActionAdjust = "adjust"
	ActionSettle = "settle"
)

func NewChangeEvent(entity, action, ref, actor string) *ChangeEvent {
	return &ChangeEvent{
		ID:        uuid.NewString(),
		Entity:    entity,
		Action:    action,
		Ref:       ref,
		Actor:     actor,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ChangeEventFromJSON creates an event from JSON bytes
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var e ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
