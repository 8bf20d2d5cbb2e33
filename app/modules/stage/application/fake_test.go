package stageservice

import (
	"context"
	"sync"

	"github.com/google/uuid"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Stage Store
// ------------------------

// FakeStageStore keeps stages in memory. Func fields override single
// methods; the trace records every call in order.
type FakeStageStore struct {
	mu      sync.Mutex
	trace   []string
	stages  map[uuid.UUID]fixturedb.Stage
	matches map[uuid.UUID]int
	current *uuid.UUID

	UpdateStageStatusFunc func(ctx context.Context, db bun.IDB, id uuid.UUID, status stagedomain.Status) error
	SetCurrentStageFunc   func(ctx context.Context, db bun.IDB, stageID uuid.UUID) error
}

func NewFakeStageStore() *FakeStageStore {
	return &FakeStageStore{
		trace:   []string{},
		stages:  map[uuid.UUID]fixturedb.Stage{},
		matches: map[uuid.UUID]int{},
	}
}

// AddStage seeds a stage with the given number of matches.
func (f *FakeStageStore) AddStage(status stagedomain.Status, required, matchCount int) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.stages[id] = fixturedb.Stage{ID: id, Name: "Stage " + id.String()[:4], Status: status, MatchesRequired: required}
	f.matches[id] = matchCount
	return id
}

func (f *FakeStageStore) SetMatchCount(id uuid.UUID, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches[id] = n
}

func (f *FakeStageStore) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeStageStore) get(id uuid.UUID) (*fixturedb.Stage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stages[id]
	if !ok {
		return nil, fixturedb.ErrNotFound
	}
	return &s, nil
}

func (f *FakeStageStore) GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error) {
	f.record("GetStage")
	return f.get(id)
}

func (f *FakeStageStore) GetStageForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error) {
	f.record("GetStageForUpdate")
	return f.get(id)
}

func (f *FakeStageStore) UpdateStageStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status stagedomain.Status) error {
	f.record("UpdateStageStatus")
	if f.UpdateStageStatusFunc != nil {
		return f.UpdateStageStatusFunc(ctx, db, id, status)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stages[id]
	if !ok {
		return fixturedb.ErrNoRowsAffected
	}
	s.Status = status
	f.stages[id] = s
	return nil
}

func (f *FakeStageStore) CountStageMatches(ctx context.Context, db bun.IDB, stageID uuid.UUID) (int, error) {
	f.record("CountStageMatches")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matches[stageID], nil
}

func (f *FakeStageStore) GetCurrentStageID(ctx context.Context, db bun.IDB) (*uuid.UUID, error) {
	f.record("GetCurrentStageID")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil, nil
	}
	id := *f.current
	return &id, nil
}

func (f *FakeStageStore) SetCurrentStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) error {
	f.record("SetCurrentStage")
	if f.SetCurrentStageFunc != nil {
		return f.SetCurrentStageFunc(ctx, db, stageID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := stageID
	f.current = &id
	return nil
}

func (f *FakeStageStore) Status(id uuid.UUID) stagedomain.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stages[id].Status
}

func (f *FakeStageStore) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ StageStore = (*FakeStageStore)(nil)

// ------------------------
// Recording publisher
// ------------------------

type publishedEvent struct {
	Topic   string
	Payload any
}

type FakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *FakePublisher) Publish(_ context.Context, topic string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Payload: payload})
	return nil
}

func (p *FakePublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}
