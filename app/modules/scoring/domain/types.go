package scoringdomain

import "github.com/google/uuid"

// ReasonPrediction is the ledger reason written for prediction points.
const ReasonPrediction = "prediction"

const (
	TeamGoalPoints    = 0.5
	OutcomeBasePoints = 2.0
	DiffBasePoints    = 1.0
	NearMissBonus     = 0.5
)

// Score is a home/away pair in which either side may be unknown.
type Score struct {
	Home *int
	Away *int
}

// Complete reports whether both sides are set.
func (s Score) Complete() bool { return s.Home != nil && s.Away != nil }

// Prediction is one participant's guess for a match.
type Prediction struct {
	UserID uuid.UUID
	Score
}

// RarityContext carries the two co-predictor counts of a match.
type RarityContext struct {
	OutcomeCount int
	DiffCount    int
}

// Breakdown is the itemized receipt of one prediction against one result.
// Every component is stored so the total can be rebuilt from the row alone.
type Breakdown struct {
	Points float64 `json:"points"`

	PointsH1      float64 `json:"points_h1"`
	PointsH2      float64 `json:"points_h2"`
	PointsOutcome float64 `json:"points_outcome"`
	PointsDiff    float64 `json:"points_diff"`
	PointsBonus   float64 `json:"points_bonus"`

	PointsOutcomeBase  float64 `json:"points_outcome_base"`
	PointsOutcomeBonus float64 `json:"points_outcome_bonus"`
	PointsDiffBase     float64 `json:"points_diff_base"`
	PointsDiffBonus    float64 `json:"points_diff_bonus"`

	OutcomeMultiplier float64 `json:"outcome_multiplier"`
	DiffMultiplier    float64 `json:"diff_multiplier"`

	PredHome   int `json:"pred_home"`
	PredAway   int `json:"pred_away"`
	ActualHome int `json:"actual_home"`
	ActualAway int `json:"actual_away"`

	GuessedHome    bool `json:"guessed_home"`
	GuessedAway    bool `json:"guessed_away"`
	GuessedOutcome bool `json:"guessed_outcome"`
	GuessedDiff    bool `json:"guessed_diff"`
	NearMiss       bool `json:"near_miss"`
}

// TeamGoals is the combined exact-goal credit, always 0, 0.5 or 1.
func (b Breakdown) TeamGoals() float64 { return Round2(b.PointsH1 + b.PointsH2) }

// Exact reports whether both sides were guessed exactly.
func (b Breakdown) Exact() bool { return b.GuessedHome && b.GuessedAway }
