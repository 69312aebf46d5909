// Package notification delivers order summaries to the shop operator.
package notification

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

const EventTypeOrderPlaced = "OrderPlaced"

// Sender delivers a preformatted message to the operator channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

type OrderPlacedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   *model.Order `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}
