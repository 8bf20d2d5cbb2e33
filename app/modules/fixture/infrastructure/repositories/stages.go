package fixturedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/uptrace/bun"
)

func (r *Impl) CreateStage(ctx context.Context, db bun.IDB, stage *Stage) error {
	db = r.resolveDB(db)
	if stage.ID == uuid.Nil {
		stage.ID = uuid.New()
	}
	if stage.Status == "" {
		stage.Status = stagedomain.StatusDraft
	}
	if _, err := db.NewInsert().Model(stage).Returning("created_at, updated_at").Exec(ctx); err != nil {
		return mapWriteErr("CreateStage", err)
	}
	return nil
}

func (r *Impl) GetStage(ctx context.Context, db bun.IDB, id uuid.UUID) (*Stage, error) {
	db = r.resolveDB(db)
	stage := new(Stage)
	if err := db.NewSelect().Model(stage).Where("s.id = ?", id).Scan(ctx); err != nil {
		return nil, mapReadErr("GetStage", err)
	}
	return stage, nil
}

// GetStageForUpdate reads the stage and holds its row lock until the
// surrounding transaction ends. Outside a transaction it is a plain read.
func (r *Impl) GetStageForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Stage, error) {
	db = r.resolveDB(db)
	stage := new(Stage)
	if err := db.NewSelect().Model(stage).Where("s.id = ?", id).For("UPDATE").Scan(ctx); err != nil {
		return nil, mapReadErr("GetStageForUpdate", err)
	}
	return stage, nil
}

func (r *Impl) ListStages(ctx context.Context, db bun.IDB) ([]Stage, error) {
	db = r.resolveDB(db)
	var stages []Stage
	if err := db.NewSelect().Model(&stages).Order("s.created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("fixturedb.ListStages: %w", err)
	}
	return stages, nil
}

func (r *Impl) UpdateStageStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status stagedomain.Status) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Stage)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("fixturedb.UpdateStageStatus: %w", err)
	}
	return requireAffected("UpdateStageStatus", res)
}

func (r *Impl) CountStageMatches(ctx context.Context, db bun.IDB, stageID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().Model((*Match)(nil)).Where("m.stage_id = ?", stageID).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("fixturedb.CountStageMatches: %w", err)
	}
	return n, nil
}

// GetCurrentStageID returns nil without error when no stage is current.
func (r *Impl) GetCurrentStageID(ctx context.Context, db bun.IDB) (*uuid.UUID, error) {
	db = r.resolveDB(db)
	row := new(CurrentStage)
	err := db.NewSelect().Model(row).Where("cs.singleton = TRUE").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fixturedb.GetCurrentStageID: %w", err)
	}
	return &row.StageID, nil
}

// SetCurrentStage points the singleton row at stageID in one statement.
func (r *Impl) SetCurrentStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) error {
	db = r.resolveDB(db)
	row := &CurrentStage{Singleton: true, StageID: stageID, UpdatedAt: time.Now().UTC()}
	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (singleton) DO UPDATE").
		Set("stage_id = EXCLUDED.stage_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("fixturedb.SetCurrentStage: %w", err)
	}
	return nil
}

func (r *Impl) CreateTour(ctx context.Context, db bun.IDB, tour *Tour) error {
	db = r.resolveDB(db)
	if tour.ID == uuid.Nil {
		tour.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(tour).Returning("created_at").Exec(ctx); err != nil {
		return mapWriteErr("CreateTour", err)
	}
	return nil
}

func (r *Impl) GetTour(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tour, error) {
	db = r.resolveDB(db)
	tour := new(Tour)
	if err := db.NewSelect().Model(tour).Where("tr.id = ?", id).Scan(ctx); err != nil {
		return nil, mapReadErr("GetTour", err)
	}
	return tour, nil
}

func (r *Impl) ListStageTours(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]Tour, error) {
	db = r.resolveDB(db)
	var tours []Tour
	err := db.NewSelect().Model(&tours).Where("tr.stage_id = ?", stageID).Order("tr.tour_no ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fixturedb.ListStageTours: %w", err)
	}
	return tours, nil
}
