package ledgerdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LedgerEntry is one itemized award for one user on one match. The table
// holds at most one row per (user_id, match_id, reason).
type LedgerEntry struct {
	bun.BaseModel `bun:"table:points_ledger,alias:pl"`

	ID      int64     `bun:"id,pk,autoincrement"`
	UserID  uuid.UUID `bun:"user_id,type:uuid,notnull"`
	MatchID uuid.UUID `bun:"match_id,type:uuid,notnull"`
	Reason  string    `bun:"reason,notnull"`

	Points             float64 `bun:"points,notnull"`
	PointsOutcome      float64 `bun:"points_outcome,notnull"`
	PointsDiff         float64 `bun:"points_diff,notnull"`
	PointsH1           float64 `bun:"points_h1,notnull"`
	PointsH2           float64 `bun:"points_h2,notnull"`
	PointsBonus        float64 `bun:"points_bonus,notnull"`
	PointsOutcomeBase  float64 `bun:"points_outcome_base,notnull"`
	PointsOutcomeBonus float64 `bun:"points_outcome_bonus,notnull"`
	PointsDiffBase     float64 `bun:"points_diff_base,notnull"`
	PointsDiffBonus    float64 `bun:"points_diff_bonus,notnull"`
	OutcomeMultiplier  float64 `bun:"outcome_multiplier,notnull"`
	DiffMultiplier     float64 `bun:"diff_multiplier,notnull"`

	PredHome   int `bun:"pred_home,notnull"`
	PredAway   int `bun:"pred_away,notnull"`
	ActualHome int `bun:"actual_home,notnull"`
	ActualAway int `bun:"actual_away,notnull"`

	GuessedHome    bool `bun:"guessed_home,notnull"`
	GuessedAway    bool `bun:"guessed_away,notnull"`
	GuessedOutcome bool `bun:"guessed_outcome,notnull"`
	GuessedDiff    bool `bun:"guessed_diff,notnull"`
	NearMiss       bool `bun:"near_miss,notnull"`

	ScoredAt time.Time `bun:"scored_at,notnull"`
}

// ReplaceStats reports what a replace changed.
type ReplaceStats struct {
	Written int
	Removed int
}
