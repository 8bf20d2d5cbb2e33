package leaderboarddb

import (
	"time"

	"github.com/google/uuid"
)

// TotalRow is one participant's sum over the ledger rows of a stage.
type TotalRow struct {
	UserID         uuid.UUID `bun:"user_id"`
	DisplayName    string    `bun:"display_name"`
	Points         float64   `bun:"points"`
	MatchesCounted int       `bun:"matches_counted"`
}

// HitsRow counts how often each scoring component was earned.
type HitsRow struct {
	UserID         uuid.UUID `bun:"user_id"`
	DisplayName    string    `bun:"display_name"`
	MatchesCounted int       `bun:"matches_counted"`
	Points         float64   `bun:"points"`
	OutcomeHits    int       `bun:"outcome_hits"`
	DiffHits       int       `bun:"diff_hits"`
	ExactHits      int       `bun:"exact_hits"`
	NearMisses     int       `bun:"near_misses"`
}

// AwardRow is one ledger row of a user with its match kickoff.
type AwardRow struct {
	MatchID   uuid.UUID `bun:"match_id"`
	KickoffAt time.Time `bun:"kickoff_at"`
	Points    float64   `bun:"points"`
}
