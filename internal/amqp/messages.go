package amqp

import (
	"encoding/json"
	"time"

	"planner/internal/core"

	"github.com/google/uuid"
)

// EventRecordedMessage announces an event that was appended to the store.
type EventRecordedMessage struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Expense     string    `json:"expense"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEventRecordedMessage creates a message with a fresh id for e.
func NewEventRecordedMessage(e core.Event) *EventRecordedMessage {
	return &EventRecordedMessage{
		ID:          uuid.NewString(),
		Date:        e.Date,
		Description: e.Description,
		Expense:     e.Expense,
		Timestamp:   time.Now().UTC(),
	}
}

func (m *EventRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
