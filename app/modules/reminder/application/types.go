package reminderservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FixtureReader is the slice of the fixture store the sweep reads.
type FixtureReader interface {
	ListMatchesClosingBetween(ctx context.Context, db bun.IDB, from, to time.Time) ([]fixturedb.MatchClosing, error)
	ListParticipantsMissingPrediction(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]uuid.UUID, error)
}

// SweepResult summarises one sweep.
type SweepResult struct {
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	MatchesChecked  int       `json:"matches_checked"`
	EventsPublished int       `json:"events_published"`
	UsersReminded   int       `json:"users_reminded"`
}
