package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// MetadataCorrelationID is the message metadata key carrying the request's correlation id.
const MetadataCorrelationID = "correlation_id"

const (
	MatchScoredTopic         = "scoring.match.scored.v1"
	MatchVoidedTopic         = "scoring.match.voided.v1"
	StagePublishedTopic      = "stage.published.v1"
	StageLockedTopic         = "stage.locked.v1"
	CurrentStageChangedTopic = "stage.current.changed.v1"
	PredictionsMissingTopic  = "reminder.predictions.missing.v1"
)

// ScoredEntry is one (user, points) pair written for a match.
type ScoredEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Points float64   `json:"points"`
}

type MatchScoredPayload struct {
	MatchID       uuid.UUID     `json:"match_id"`
	StageID       uuid.UUID     `json:"stage_id"`
	Entries       []ScoredEntry `json:"entries"`
	TotalPoints   float64       `json:"total_points"`
	AffectedCount int           `json:"affected_count"`
}

type MatchVoidedPayload struct {
	MatchID        uuid.UUID `json:"match_id"`
	StageID        uuid.UUID `json:"stage_id"`
	RemovedEntries int       `json:"removed_entries"`
}

type StageTransitionPayload struct {
	StageID uuid.UUID `json:"stage_id"`
	Status  string    `json:"status"`
}

type CurrentStageChangedPayload struct {
	StageID         uuid.UUID  `json:"stage_id"`
	PreviousStageID *uuid.UUID `json:"previous_stage_id,omitempty"`
}

// PredictionsMissingPayload lists participants without a complete
// prediction for a match that closes soon.
type PredictionsMissingPayload struct {
	MatchID    uuid.UUID   `json:"match_id"`
	StageID    uuid.UUID   `json:"stage_id"`
	DeadlineAt time.Time   `json:"deadline_at"`
	UserIDs    []uuid.UUID `json:"user_ids"`
}
