package testutils

import (
	"context"
	"sync"

	"github.com/matchday-pool/predictor/app/eventbus"
)

// RecordedEvent is one Publish call.
type RecordedEvent struct {
	Topic   string
	Payload any
}

// FakeEventRecorder captures published events in memory.
type FakeEventRecorder struct {
	mu     sync.Mutex
	events []RecordedEvent
}

var _ eventbus.Publisher = (*FakeEventRecorder)(nil)

func NewFakeEventRecorder() *FakeEventRecorder {
	return &FakeEventRecorder{}
}

func (r *FakeEventRecorder) Publish(_ context.Context, topic string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, RecordedEvent{Topic: topic, Payload: payload})
	return nil
}

// Topics returns the published topics in order.
func (r *FakeEventRecorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Topic
	}
	return out
}

func (r *FakeEventRecorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
