package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/notification"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// OrderListener turns OrderPlaced events into operator messages.
type OrderListener struct {
	consumer Consumer
	sender   notification.Sender
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewOrderListener(consumer Consumer, sender notification.Sender, logger logger.ZapLogger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		sender:   sender,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("Starting order notification listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order notification listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

// processMessage sends at most once per event; a failed send is logged and
// the offset still advances.
func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event notification.OrderPlacedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != notification.EventTypeOrderPlaced || event.Payload == nil {
		return
	}

	l.logger.Info("Processing OrderPlaced event", zap.String("order_id", event.Payload.ID))

	if err := l.sender.Send(ctx, notification.FormatOrderMessage(event.Payload)); err != nil {
		l.logger.Error("Failed to send order notification",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}
