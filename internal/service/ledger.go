// Package service wires the ledger use cases together: transaction CRUD,
// statistics, budget alerts, and JSON/CSV exchange behind one facade.
package service

import (
	"context"
	"io"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/exchange"
	"ledger/internal/notify"
	"ledger/internal/repository"
	"ledger/internal/stats"
)

// EventPublisher forwards domain events to the broker. Nil disables
// publishing.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.Event) error
}

type Ledger struct {
	repo      *repository.Repository
	stats     *stats.Service
	notify    *notify.Service
	exchange  *exchange.Service
	publisher EventPublisher
	logger    *slog.Logger
}

func NewLedger(repo *repository.Repository, settings core.Settings, publisher EventPublisher, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		repo:      repo,
		stats:     stats.New(repo),
		notify:    notify.New(repo, settings, publisher),
		exchange:  exchange.New(repo),
		publisher: publisher,
		logger:    logger,
	}
}

// Create validates and stores a new transaction, then publishes the created
// event and re-evaluates the monthly budget.
func (l *Ledger) Create(ctx context.Context, candidate core.Transaction) (core.Transaction, error) {
	if err := candidate.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := l.repo.Add(ctx, candidate)
	if err != nil {
		return core.Transaction{}, err
	}

	l.publishEvent(ctx, amqp.NewTransactionEvent(amqp.KindTransactionCreated, tx))
	l.checkBudget(ctx)
	return tx, nil
}

// Edit replaces the caller-settable fields of an existing transaction.
func (l *Ledger) Edit(ctx context.Context, candidate core.Transaction) (core.Transaction, error) {
	if err := candidate.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx, err := l.repo.Update(ctx, candidate)
	if err != nil {
		return core.Transaction{}, err
	}

	l.publishEvent(ctx, amqp.NewTransactionEvent(amqp.KindTransactionUpdated, tx))
	l.checkBudget(ctx)
	return tx, nil
}

// Remove soft deletes a transaction. Removing an absent or already removed
// id succeeds without an event.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	tx, err := l.repo.GetByID(id)
	if err != nil {
		// Idempotent: nothing visible under this id.
		return l.repo.Remove(ctx, id)
	}

	if err := l.repo.Remove(ctx, id); err != nil {
		return err
	}

	l.publishEvent(ctx, amqp.NewTransactionEvent(amqp.KindTransactionDeleted, tx))
	return nil
}

func (l *Ledger) Get(id string) (core.Transaction, error) {
	return l.repo.GetByID(id)
}

func (l *Ledger) All() []core.Transaction {
	return l.repo.All()
}

func (l *Ledger) Search(filter core.Filter) []core.Transaction {
	return l.repo.Find(filter)
}

// Stats exposes the statistics engine over the live transaction set.
func (l *Ledger) Stats() *stats.Service {
	return l.stats
}

func (l *Ledger) TotalIncome(r core.DateRange) float64 {
	return l.stats.TotalIncome(r)
}

func (l *Ledger) TotalExpense(r core.DateRange) float64 {
	return l.stats.TotalExpense(r)
}

func (l *Ledger) CategoryBreakdown(r core.DateRange) map[string]float64 {
	return l.stats.CategoryBreakdown(r)
}

func (l *Ledger) MonthlyTotals(r core.DateRange) map[string]float64 {
	return l.stats.MonthlyTotals(r)
}

func (l *Ledger) AssetTrend(r core.DateRange) map[int64]float64 {
	return l.stats.AssetTrend(r)
}

func (l *Ledger) ExportJSON(w io.Writer) error {
	return l.exchange.ExportJSON(w)
}

func (l *Ledger) ImportJSON(ctx context.Context, r io.Reader) (exchange.ImportResult, error) {
	result, err := l.exchange.ImportJSON(ctx, r)
	if err == nil {
		l.checkBudget(ctx)
	}
	return result, err
}

func (l *Ledger) ExportCSV(w io.Writer) error {
	return l.exchange.ExportCSV(w)
}

func (l *Ledger) ImportCSV(ctx context.Context, r io.Reader) (exchange.ImportResult, error) {
	result, err := l.exchange.ImportCSV(ctx, r)
	if err == nil {
		l.checkBudget(ctx)
	}
	return result, err
}

func (l *Ledger) RegisterListener(fn notify.Listener) {
	l.notify.RegisterListener(fn)
}

func (l *Ledger) Notifications() []core.Notification {
	return l.notify.Notifications()
}

func (l *Ledger) MarkNotificationRead(id string) {
	l.notify.MarkRead(id)
}

// Backup takes a point-in-time copy of the persisted snapshot and returns
// its location.
func (l *Ledger) Backup(ctx context.Context) (string, error) {
	return l.repo.Backup(ctx)
}

// checkBudget evaluates the budget thresholds against the current month and
// publishes any notifications they produce.
func (l *Ledger) checkBudget(ctx context.Context) {
	for _, n := range l.notify.CheckThresholds() {
		l.notify.Publish(ctx, n)
	}
}

// publishEvent forwards an event to the broker. A transport failure is
// logged and never fails the operation that produced the event.
func (l *Ledger) publishEvent(ctx context.Context, event *amqp.Event) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishEvent(ctx, event); err != nil {
		l.logger.Warn("failed to publish event", "kind", event.Kind, "error", err)
	}
}
