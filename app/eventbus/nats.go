package eventbus

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// NatsPublisher implements the Watermill Publisher interface over a core
// NATS connection. Metadata travels as NATS headers.
type NatsPublisher struct {
	conn   *nc.Conn
	logger watermill.LoggerAdapter
}

var _ message.Publisher = (*NatsPublisher)(nil)

// NewNatsPublisher connects to natsURL with unlimited reconnects.
func NewNatsPublisher(natsURL string, logger watermill.LoggerAdapter, opts ...nc.Option) (*NatsPublisher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	logger.Info("Connecting to NATS for publisher", watermill.LogFields{"url": natsURL})

	reconnectOpts := []nc.Option{
		nc.Name("predictor"),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(2 * time.Second),
	}
	reconnectOpts = append(reconnectOpts, opts...)

	conn, err := nc.Connect(natsURL, reconnectOpts...)
	if err != nil {
		logger.Error("Failed to connect to NATS", err, nil)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS for publisher", nil)

	return &NatsPublisher{conn: conn, logger: logger}, nil
}

// Publish implements the message.Publisher interface.
func (p *NatsPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if err := p.conn.PublishMsg(toNatsMsg(topic, msg)); err != nil {
			return fmt.Errorf("failed to publish message to NATS: %w", err)
		}
		p.logger.Trace("Published message", watermill.LogFields{"topic": topic, "uuid": msg.UUID})
	}
	return nil
}

// Close drains pending messages before closing the connection.
func (p *NatsPublisher) Close() error {
	p.logger.Info("Closing NATS publisher connection", nil)
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}

func toNatsMsg(topic string, msg *message.Message) *nc.Msg {
	out := nc.NewMsg(topic)
	out.Data = msg.Payload
	out.Header.Set(nc.MsgIdHdr, msg.UUID)
	for k, v := range msg.Metadata {
		out.Header.Set(k, v)
	}
	return out
}
