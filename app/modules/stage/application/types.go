package stageservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/uptrace/bun"
)

// StageStore is the slice of the fixture store the lifecycle needs.
type StageStore interface {
	GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error)
	GetStageForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*fixturedb.Stage, error)
	UpdateStageStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status stagedomain.Status) error
	CountStageMatches(ctx context.Context, db bun.IDB, stageID uuid.UUID) (int, error)
	GetCurrentStageID(ctx context.Context, db bun.IDB) (*uuid.UUID, error)
	SetCurrentStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) error
}

// StageView is the read model of a stage. IsCurrent is derived from the
// current-stage pointer, not stored on the stage.
type StageView struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Status          stagedomain.Status `json:"status"`
	MatchesRequired int                `json:"matches_required"`
	MatchCount      int                `json:"match_count"`
	IsCurrent       bool               `json:"is_current"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type TransitionResult struct {
	Stage   StageView          `json:"stage"`
	From    stagedomain.Status `json:"from"`
	Changed bool               `json:"changed"`
}

type CurrentStageResult struct {
	StageID         uuid.UUID  `json:"stage_id"`
	PreviousStageID *uuid.UUID `json:"previous_stage_id,omitempty"`
	Changed         bool       `json:"changed"`
}

func toView(s *fixturedb.Stage, matchCount int, current *uuid.UUID) StageView {
	return StageView{
		ID:              s.ID,
		Name:            s.Name,
		Status:          s.Status,
		MatchesRequired: s.MatchesRequired,
		MatchCount:      matchCount,
		IsCurrent:       current != nil && *current == s.ID,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
