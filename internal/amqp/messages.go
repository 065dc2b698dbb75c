package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"ledger/internal/core"
)

const (
	KindTransactionCreated = "transaction.created"
	KindTransactionUpdated = "transaction.updated"
	KindTransactionDeleted = "transaction.deleted"
	KindBudgetAlert        = "budget.alert"
)

// Event is the envelope published for every ledger mutation and budget
// alert. It carries the full payload so consumers never have to reach back
// into the repository.
type Event struct {
	Kind         string             `json:"kind"`
	Timestamp    time.Time          `json:"timestamp"`
	Transaction  *core.Transaction  `json:"transaction,omitempty"`
	Notification *core.Notification `json:"notification,omitempty"`
}

func NewTransactionEvent(kind string, tx core.Transaction) *Event {
	return &Event{
		Kind:        kind,
		Timestamp:   time.Now(),
		Transaction: &tx,
	}
}

func NewBudgetAlertEvent(n core.Notification) *Event {
	return &Event{
		Kind:         KindBudgetAlert,
		Timestamp:    time.Now(),
		Notification: &n,
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Kind == "" {
		return nil, fmt.Errorf("event without kind")
	}
	return &e, nil
}
