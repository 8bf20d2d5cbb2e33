package fixturedb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/uptrace/bun"
)

func (r *Impl) CreateMatch(ctx context.Context, db bun.IDB, match *Match) error {
	db = r.resolveDB(db)
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	if match.Status == "" {
		match.Status = fixturedomain.MatchScheduled
	}
	if _, err := db.NewInsert().Model(match).Returning("created_at, updated_at").Exec(ctx); err != nil {
		return mapWriteErr("CreateMatch", err)
	}
	return nil
}

func (r *Impl) GetMatch(ctx context.Context, db bun.IDB, id uuid.UUID) (*Match, error) {
	db = r.resolveDB(db)
	match := new(Match)
	if err := db.NewSelect().Model(match).Where("m.id = ?", id).Scan(ctx); err != nil {
		return nil, mapReadErr("GetMatch", err)
	}
	return match, nil
}

// GetMatchForUpdate locks the match row for the rest of the transaction.
// Concurrent scorers of the same match queue behind this lock.
func (r *Impl) GetMatchForUpdate(ctx context.Context, db bun.IDB, id uuid.UUID) (*Match, error) {
	db = r.resolveDB(db)
	match := new(Match)
	if err := db.NewSelect().Model(match).Where("m.id = ?", id).For("UPDATE").Scan(ctx); err != nil {
		return nil, mapReadErr("GetMatchForUpdate", err)
	}
	return match, nil
}

// UpdateMatch writes the structural fields of a match. Result fields are
// changed only through UpdateMatchResult.
func (r *Impl) UpdateMatch(ctx context.Context, db bun.IDB, match *Match) error {
	db = r.resolveDB(db)
	match.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(match).
		Column("tour_id", "home_team_id", "away_team_id", "kickoff_at", "deadline_at", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapWriteErr("UpdateMatch", err)
	}
	return requireAffected("UpdateMatch", res)
}

func (r *Impl) UpdateMatchResult(
	ctx context.Context,
	db bun.IDB,
	id uuid.UUID,
	status fixturedomain.MatchStatus,
	home, away *int,
	recordedAt *time.Time,
) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Match)(nil)).
		Set("status = ?", status).
		Set("home_score = ?", home).
		Set("away_score = ?", away).
		Set("result_recorded_at = ?", recordedAt).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("fixturedb.UpdateMatchResult: %w", err)
	}
	return requireAffected("UpdateMatchResult", res)
}

// DeleteMatch removes the match; predictions and ledger rows cascade.
func (r *Impl) DeleteMatch(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().Model((*Match)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("fixturedb.DeleteMatch: %w", err)
	}
	return requireAffected("DeleteMatch", res)
}

func (r *Impl) ListStageMatches(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]Match, error) {
	db = r.resolveDB(db)
	var matches []Match
	err := db.NewSelect().
		Model(&matches).
		Where("m.stage_id = ?", stageID).
		Order("m.kickoff_at ASC", "m.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fixturedb.ListStageMatches: %w", err)
	}
	return matches, nil
}

// ListFinishedMatchIDs returns the scorable matches of a stage in kickoff order.
func (r *Impl) ListFinishedMatchIDs(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]uuid.UUID, error) {
	db = r.resolveDB(db)
	var ids []uuid.UUID
	err := db.NewSelect().
		Model((*Match)(nil)).
		Column("m.id").
		Where("m.stage_id = ?", stageID).
		Where("m.status = ?", fixturedomain.MatchFinished).
		Where("m.home_score IS NOT NULL AND m.away_score IS NOT NULL").
		Order("m.kickoff_at ASC", "m.id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("fixturedb.ListFinishedMatchIDs: %w", err)
	}
	return ids, nil
}

// ListMatchesClosingBetween returns scheduled matches of published or locked
// stages whose deadline is in (from, to].
func (r *Impl) ListMatchesClosingBetween(ctx context.Context, db bun.IDB, from, to time.Time) ([]MatchClosing, error) {
	db = r.resolveDB(db)
	var out []MatchClosing
	err := db.NewSelect().
		Model((*Match)(nil)).
		ColumnExpr("m.id AS match_id").
		ColumnExpr("m.stage_id").
		ColumnExpr("m.deadline_at").
		Join("JOIN stages AS s ON s.id = m.stage_id").
		Where("m.status = ?", fixturedomain.MatchScheduled).
		Where("s.status <> ?", stagedomain.StatusDraft).
		Where("m.deadline_at > ?", from).
		Where("m.deadline_at <= ?", to).
		Order("m.deadline_at ASC").
		Scan(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("fixturedb.ListMatchesClosingBetween: %w", err)
	}
	return out, nil
}
