package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
)

// RowAppender writes one mirrored row per event.
type RowAppender interface {
	AppendRow(ctx context.Context, kind string, when time.Time, tx core.Transaction) error
}

// EventConsumer is the broker surface the worker depends on.
type EventConsumer interface {
	ConsumeEvents(ctx context.Context, handler func(context.Context, *amqp.Event) error) error
}

// Worker mirrors transaction events into a spreadsheet. Events without a
// transaction payload, such as budget alerts, are acknowledged and skipped.
type Worker struct {
	consumer EventConsumer
	appender RowAppender
	logger   *slog.Logger
}

func NewWorker(consumer EventConsumer, appender RowAppender, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		consumer: consumer,
		appender: appender,
		logger:   logger,
	}
}

// Run consumes events until the context is cancelled or consumption fails.
// An append failure is returned to the broker so the event is redelivered.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("mirror worker starting")
	return w.consumer.ConsumeEvents(ctx, w.handle)
}

func (w *Worker) handle(ctx context.Context, event *amqp.Event) error {
	if event.Transaction == nil {
		w.logger.Debug("skipping event without transaction payload", "kind", event.Kind)
		return nil
	}

	if err := w.appender.AppendRow(ctx, event.Kind, event.Timestamp, *event.Transaction); err != nil {
		return fmt.Errorf("mirror %s %s: %w", event.Kind, event.Transaction.ID, err)
	}

	w.logger.Info("mirrored transaction event",
		"kind", event.Kind,
		"transaction_id", event.Transaction.ID)
	return nil
}
