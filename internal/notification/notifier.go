package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/google/uuid"
)

// DirectNotifier formats the order and hands it straight to a Sender.
type DirectNotifier struct {
	sender Sender
}

func NewDirectNotifier(sender Sender) *DirectNotifier {
	return &DirectNotifier{sender: sender}
}

func (n *DirectNotifier) OrderPlaced(ctx context.Context, o *model.Order) error {
	return n.sender.Send(ctx, FormatOrderMessage(o))
}

type Publisher interface {
	Publish(ctx context.Context, key string, value []byte, headers map[string]string) error
}

// EventNotifier publishes an OrderPlaced event keyed by order id. The
// listener package consumes it and performs the actual send.
type EventNotifier struct {
	publisher Publisher
}

func NewEventNotifier(publisher Publisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

func (n *EventNotifier) OrderPlaced(ctx context.Context, o *model.Order) error {
	event := OrderPlacedEvent{
		EventID:   uuid.New().String(),
		EventType: EventTypeOrderPlaced,
		Payload:   o,
		Timestamp: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	headers := map[string]string{"event_type": EventTypeOrderPlaced}
	if err := n.publisher.Publish(ctx, o.ID, value, headers); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}
