package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/observability/attr"
	nc "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPublishDeliversJSON(t *testing.T) {
	bus, pubSub := NewInProcess(slog.Default())
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs, err := pubSub.Subscribe(ctx, MatchScoredTopic)
	require.NoError(t, err)

	payload := MatchScoredPayload{
		MatchID:       uuid.New(),
		StageID:       uuid.New(),
		Entries:       []ScoredEntry{{UserID: uuid.New(), Points: 6.25}},
		TotalPoints:   6.25,
		AffectedCount: 1,
	}
	require.NoError(t, bus.Publish(attr.WithCorrelationID(ctx, "corr-1"), MatchScoredTopic, payload))

	select {
	case msg := <-msgs:
		msg.Ack()
		var got MatchScoredPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, payload, got)
		assert.Equal(t, "corr-1", msg.Metadata.Get(MetadataCorrelationID))
		assert.Equal(t, MatchScoredTopic, msg.Metadata.Get("topic"))
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error { return nil }

func TestEventBusPublishWrapsErrors(t *testing.T) {
	bus := New(failingPublisher{}, nil)
	err := bus.Publish(context.Background(), StageLockedTopic, StageTransitionPayload{StageID: uuid.New(), Status: "locked"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), StageLockedTopic)
	assert.Contains(t, err.Error(), "broker down")
}

func TestEventBusPublishRejectsUnmarshalable(t *testing.T) {
	bus := New(failingPublisher{}, nil)
	err := bus.Publish(context.Background(), StageLockedTopic, make(chan int))
	assert.ErrorContains(t, err, "marshal")
}

func TestToNatsMsgCopiesMetadata(t *testing.T) {
	msg := message.NewMessage("msg-1", []byte(`{"a":1}`))
	msg.Metadata.Set(MetadataCorrelationID, "corr-9")

	out := toNatsMsg(StageLockedTopic, msg)

	assert.Equal(t, StageLockedTopic, out.Subject)
	assert.Equal(t, []byte(`{"a":1}`), out.Data)
	assert.Equal(t, "msg-1", out.Header.Get(nc.MsgIdHdr))
	assert.Equal(t, "corr-9", out.Header.Get(MetadataCorrelationID))
}
