// Package events publishes expense and budget changes to a message broker.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Routing keys, one per kind of change.
const (
	ExpenseCreated = "expense.created"
	ExpenseUpdated = "expense.updated"
	ExpenseDeleted = "expense.deleted"
	BudgetUpserted = "budget.upserted"
	BudgetUpdated  = "budget.updated"
	BudgetDeleted  = "budget.deleted"
)

// Event describes one change to a user's records. Payload is the record as
// returned to the client, absent for deletions.
type Event struct {
	Type       string          `json:"type"`
	UserID     string          `json:"user_id"`
	EntityID   string          `json:"entity_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event, marshalling payload when it is not nil.
func NewEvent(eventType, userID, entityID string, payload any, now time.Time) (Event, error) {
	e := Event{Type: eventType, UserID: userID, EntityID: entityID, OccurredAt: now.UTC()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		e.Payload = raw
	}
	return e, nil
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
