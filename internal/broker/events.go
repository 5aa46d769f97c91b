package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"checkout-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSessionCreated publishes SessionCreated event
func (ep *EventPublisher) PublishSessionCreated(ctx context.Context, event *models.SessionCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishOrderRecorded publishes OrderRecorded event
func (ep *EventPublisher) PublishOrderRecorded(ctx context.Context, event *models.OrderRecordedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishLoyaltyCredited publishes LoyaltyCredited event
func (ep *EventPublisher) PublishLoyaltyCredited(ctx context.Context, event *models.LoyaltyCreditedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

// PublishLoyaltyCreditRequested publishes LoyaltyCreditRequested event
func (ep *EventPublisher) PublishLoyaltyCreditRequested(ctx context.Context, event *models.LoyaltyCreditRequestedEvent) error {
	return ep.producer.PublishEvent(ctx, sessionKey(event.SessionID), event)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// EventHandler handles incoming events
type EventHandler struct {
	onLoyaltyCreditRequested func(context.Context, *models.LoyaltyCreditRequestedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnLoyaltyCreditRequested registers a handler for LoyaltyCreditRequested events
func (eh *EventHandler) OnLoyaltyCreditRequested(handler func(context.Context, *models.LoyaltyCreditRequestedEvent) error) {
	eh.onLoyaltyCreditRequested = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	log.Printf("Handling event: type=%s, id=%s", baseEvent.EventType, baseEvent.EventID)

	switch baseEvent.EventType {
	case models.EventTypeLoyaltyCreditRequested:
		if eh.onLoyaltyCreditRequested != nil {
			var event models.LoyaltyCreditRequestedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal LoyaltyCreditRequested event: %w", err)
			}
			return eh.onLoyaltyCreditRequested(ctx, &event)
		}

	default:
		// Other event types are published for downstream consumers only.
	}

	return nil
}
