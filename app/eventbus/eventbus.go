package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/matchday-pool/predictor/app/observability/attr"
)

// Publisher is what services depend on to emit domain events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// EventBus encodes payloads as JSON Watermill messages and hands them to
// the underlying publisher (NATS in production, gochannel otherwise).
type EventBus struct {
	publisher message.Publisher
	logger    *slog.Logger
}

var _ Publisher = (*EventBus)(nil)

func New(publisher message.Publisher, logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{publisher: publisher, logger: logger}
}

// NewInProcess returns an EventBus over a gochannel pub/sub along with the
// pub/sub itself so in-process subscribers can attach.
func NewInProcess(logger *slog.Logger) (*EventBus, *gochannel.GoChannel) {
	if logger == nil {
		logger = slog.Default()
	}
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger))
	return New(pubSub, logger), pubSub
}

// Publish marshals payload and publishes it on topic. The correlation id of
// ctx, when set, travels as message metadata.
func (eb *EventBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("eventbus.Publish: marshal %s: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)
	if id := attr.CorrelationID(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	msg.SetContext(ctx)

	if err := eb.publisher.Publish(topic, msg); err != nil {
		eb.logger.ErrorContext(ctx, "Failed to publish event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.Error(err),
		)
		return fmt.Errorf("eventbus.Publish: %s: %w", topic, err)
	}

	eb.logger.DebugContext(ctx, "Event published",
		attr.ExtractCorrelationID(ctx),
		attr.String("topic", topic),
		attr.String("message_id", msg.UUID),
	)
	return nil
}

func (eb *EventBus) Close() error {
	return eb.publisher.Close()
}
