package fixturedb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpsertPrediction writes the participant's prediction for a match,
// replacing any earlier one.
func (r *Impl) UpsertPrediction(ctx context.Context, db bun.IDB, p *Prediction) error {
	db = r.resolveDB(db)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(p).
		On("CONFLICT (match_id, user_id) DO UPDATE").
		Set("home_pred = EXCLUDED.home_pred").
		Set("away_pred = EXCLUDED.away_pred").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return mapWriteErr("UpsertPrediction", err)
	}
	return nil
}

// ListMatchPredictions returns the predictions of non-admin participants,
// ordered by user id so scoring output is stable.
func (r *Impl) ListMatchPredictions(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]Prediction, error) {
	db = r.resolveDB(db)
	var preds []Prediction
	err := db.NewSelect().
		Model(&preds).
		Join("JOIN participants AS p ON p.id = pr.user_id").
		Where("pr.match_id = ?", matchID).
		Where("p.is_admin = FALSE").
		Order("pr.user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fixturedb.ListMatchPredictions: %w", err)
	}
	return preds, nil
}

// ListParticipantsMissingPrediction returns non-admin participants without a
// complete prediction for matchID.
func (r *Impl) ListParticipantsMissingPrediction(ctx context.Context, db bun.IDB, matchID uuid.UUID) ([]uuid.UUID, error) {
	db = r.resolveDB(db)
	complete := db.NewSelect().
		Model((*Prediction)(nil)).
		ColumnExpr("1").
		Where("pr.match_id = ?", matchID).
		Where("pr.user_id = p.id").
		Where("pr.home_pred IS NOT NULL AND pr.away_pred IS NOT NULL")

	var ids []uuid.UUID
	err := db.NewSelect().
		Model((*Participant)(nil)).
		Column("p.id").
		Where("p.is_admin = FALSE").
		Where("NOT EXISTS (?)", complete).
		Order("p.id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("fixturedb.ListParticipantsMissingPrediction: %w", err)
	}
	return ids, nil
}
