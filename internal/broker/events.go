package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"payin-bridge/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing purchase outcome events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishPurchaseSucceeded publishes PurchaseSucceeded event
func (ep *EventPublisher) PublishPurchaseSucceeded(ctx context.Context, event *models.PurchaseSucceededEvent) error {
	key := fmt.Sprintf("purchase-%s", event.TransactionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPurchaseFailed publishes PurchaseFailed event
func (ep *EventPublisher) PublishPurchaseFailed(ctx context.Context, event *models.PurchaseFailedEvent) error {
	key := fmt.Sprintf("purchase-%s", event.EventID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes purchase outcome events to registered handlers
type EventHandler struct {
	onPurchaseSucceeded func(context.Context, *models.PurchaseSucceededEvent) error
	onPurchaseFailed    func(context.Context, *models.PurchaseFailedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnPurchaseSucceeded registers a handler for PurchaseSucceeded events
func (eh *EventHandler) OnPurchaseSucceeded(handler func(context.Context, *models.PurchaseSucceededEvent) error) {
	eh.onPurchaseSucceeded = handler
}

// OnPurchaseFailed registers a handler for PurchaseFailed events
func (eh *EventHandler) OnPurchaseFailed(handler func(context.Context, *models.PurchaseFailedEvent) error) {
	eh.onPurchaseFailed = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypePurchaseSucceeded:
		if eh.onPurchaseSucceeded != nil {
			var event models.PurchaseSucceededEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PurchaseSucceeded event: %w", err)
			}
			return eh.onPurchaseSucceeded(ctx, &event)
		}

	case models.EventTypePurchaseFailed:
		if eh.onPurchaseFailed != nil {
			var event models.PurchaseFailedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PurchaseFailed event: %w", err)
			}
			return eh.onPurchaseFailed(ctx, &event)
		}
	}

	return nil
}
