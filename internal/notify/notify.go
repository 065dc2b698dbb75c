// Package notify raises budget-threshold notifications and fans them out to
// registered listeners, in registration order, synchronously.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledger/internal/amqp"
	"ledger/internal/core"
)

const (
	LevelWarning = "warning"
	LevelDanger  = "danger"

	warningRatio = 0.8
)

// Listener receives each published notification.
type Listener func(core.Notification)

// TransactionSource is the read-only repository view the service consumes.
type TransactionSource interface {
	All() []core.Transaction
}

// EventPublisher forwards alerts to the event transport. *amqp.Client
// satisfies it; nil disables publishing.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.Event) error
}

type Service struct {
	source    TransactionSource
	settings  core.Settings
	publisher EventPublisher

	mu            sync.Mutex
	listeners     []Listener
	notifications []core.Notification

	now func() time.Time
}

func New(source TransactionSource, settings core.Settings, publisher EventPublisher) *Service {
	return &Service{
		source:    source,
		settings:  settings,
		publisher: publisher,
		now:       time.Now,
	}
}

// CheckThresholds inspects the current local month's expenses against the
// monthly budget: crossing 80% raises a warning, crossing 100% a danger
// alert. No budget configured means no notifications.
func (s *Service) CheckThresholds() []core.Notification {
	if s.settings.MonthlyBudget <= 0 {
		return nil
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	window := core.DateRange{From: monthStart.Unix(), To: now.Unix()}

	totalExpense := 0.0
	for _, tx := range s.source.All() {
		if tx.Type == core.Expense && window.Contains(tx.Date) {
			totalExpense += tx.Amount
		}
	}

	budget := s.settings.MonthlyBudget
	var result []core.Notification

	if totalExpense >= budget*warningRatio {
		result = append(result, core.Notification{
			ID:        "notif_" + uuid.NewString(),
			Message:   "You've spent 80% of your monthly budget!",
			Level:     LevelWarning,
			Timestamp: now.Unix(),
		})
	}
	if totalExpense >= budget {
		result = append(result, core.Notification{
			ID:        "notif_" + uuid.NewString(),
			Message:   "You've exceeded your monthly budget!",
			Level:     LevelDanger,
			Timestamp: now.Unix(),
		})
	}

	return result
}

// RegisterListener appends a listener; listeners are invoked in
// registration order.
func (s *Service) RegisterListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Publish stores the notification and fans it out. Listener calls happen
// outside the service lock so a listener may call back into the service.
// The alert is also forwarded to the event transport when one is wired;
// a publish failure is logged and never fails the caller.
func (s *Service) Publish(ctx context.Context, n core.Notification) {
	s.mu.Lock()
	s.notifications = append(s.notifications, n)
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(n)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishEvent(ctx, amqp.NewBudgetAlertEvent(n)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget alert",
				"id", n.ID,
				"level", n.Level,
				"error", err)
		}
	}
}

// Notifications returns every stored notification in publish order.
func (s *Service) Notifications() []core.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]core.Notification, len(s.notifications))
	copy(result, s.notifications)
	return result
}

// MarkRead flags the stored notification with that id; unknown ids are a
// no-op.
func (s *Service) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].IsRead = true
			return
		}
	}
}
