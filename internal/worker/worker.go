package worker

import (
	"context"
	"log"

	"payin-bridge/internal/broker"
	"payin-bridge/internal/models"
	"payin-bridge/internal/store"
)

// ReconciliationWorker consumes purchase outcome events and records payin
// attempts in the database. Indeterminate gateway failures end up here too,
// so operators have a durable list of attempts to reconcile against the
// provider.
type ReconciliationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
}

// NewReconciliationWorker creates a new reconciliation worker
func NewReconciliationWorker(consumer *broker.Consumer, st *store.Store) *ReconciliationWorker {
	w := &ReconciliationWorker{
		consumer: consumer,
		store:    st,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnPurchaseSucceeded(w.handlePurchaseSucceeded)
	eventHandler.OnPurchaseFailed(w.handlePurchaseFailed)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *ReconciliationWorker) Start(ctx context.Context) error {
	log.Println("Starting reconciliation worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReconciliationWorker) Stop() error {
	log.Println("Stopping reconciliation worker...")
	return w.consumer.Close()
}

func (w *ReconciliationWorker) handlePurchaseSucceeded(ctx context.Context, event *models.PurchaseSucceededEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		return nil
	}

	attempt := &models.PayinAttempt{
		TransactionID: event.TransactionID,
		ProductID:     event.ProductID,
		PayinID:       event.PayinID,
		Outcome:       models.AttemptOutcomeSucceeded,
	}

	if err := w.store.CreatePayinAttempt(ctx, attempt); err != nil {
		return err
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}

func (w *ReconciliationWorker) handlePurchaseFailed(ctx context.Context, event *models.PurchaseFailedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		return nil
	}

	// Failed attempts have no transaction id; the event id is the
	// correlation handle for operators.
	attempt := &models.PayinAttempt{
		TransactionID: event.EventID,
		ProductID:     event.ProductID,
		Outcome:       models.AttemptOutcomeFailed,
		Reason:        event.Reason,
		Indeterminate: event.Indeterminate,
	}

	if err := w.store.CreatePayinAttempt(ctx, attempt); err != nil {
		return err
	}

	return w.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
}
