package reminderservice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	"github.com/uptrace/bun"
)

type FakeFixtureReader struct {
	trace []string

	ListMatchesClosingBetweenFunc         func(ctx context.Context, db bun.IDB, from, to time.Time) ([]fixturedb.MatchClosing, error)
	ListParticipantsMissingPredictionFunc func(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]uuid.UUID, error)
}

func (f *FakeFixtureReader) ListMatchesClosingBetween(ctx context.Context, db bun.IDB, from, to time.Time) ([]fixturedb.MatchClosing, error) {
	f.trace = append(f.trace, "ListMatchesClosingBetween")
	if f.ListMatchesClosingBetweenFunc != nil {
		return f.ListMatchesClosingBetweenFunc(ctx, db, from, to)
	}
	return nil, nil
}

func (f *FakeFixtureReader) ListParticipantsMissingPrediction(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]uuid.UUID, error) {
	f.trace = append(f.trace, "ListParticipantsMissingPrediction")
	if f.ListParticipantsMissingPredictionFunc != nil {
		return f.ListParticipantsMissingPredictionFunc(ctx, db, matchID)
	}
	return nil, nil
}

func (f *FakeFixtureReader) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ FixtureReader = (*FakeFixtureReader)(nil)

type published struct {
	Topic   string
	Payload any
}

type FakePublisher struct {
	mu     sync.Mutex
	events []published

	PublishFunc func(ctx context.Context, topic string, payload any) error
}

func (f *FakePublisher) Publish(ctx context.Context, topic string, payload any) error {
	if f.PublishFunc != nil {
		if err := f.PublishFunc(ctx, topic, payload); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{Topic: topic, Payload: payload})
	return nil
}

func (f *FakePublisher) Events() []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]published, len(f.events))
	copy(out, f.events)
	return out
}
