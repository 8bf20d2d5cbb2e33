package leaderboarddb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	scoringdomain "github.com/matchday-pool/predictor/app/modules/scoring/domain"
	"github.com/uptrace/bun"
)

// Impl implements Repository.
type Impl struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// stageRows selects the prediction ledger rows of a stage's matches.
func stageRows(db bun.IDB, stageID uuid.UUID) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("points_ledger AS pl").
		Join("JOIN matches AS m ON m.id = pl.match_id").
		Where("m.stage_id = ?", stageID).
		Where("pl.reason = ?", scoringdomain.ReasonPrediction)
}

func (r *Impl) SumUserPoints(ctx context.Context, db bun.IDB, stageID, userID uuid.UUID) (float64, error) {
	db = r.resolveDB(db)
	var total float64
	err := stageRows(db, stageID).
		ColumnExpr("COALESCE(SUM(pl.points), 0)").
		Where("pl.user_id = ?", userID).
		Scan(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("leaderboarddb.SumUserPoints: %w", err)
	}
	return total, nil
}

// ListStageTotals returns every non-admin participant, with zero points for
// those without rows in the stage.
func (r *Impl) ListStageTotals(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]TotalRow, error) {
	db = r.resolveDB(db)
	sub := stageRows(db, stageID).ColumnExpr("pl.id, pl.user_id, pl.points")

	var rows []TotalRow
	err := db.NewSelect().
		TableExpr("participants AS p").
		ColumnExpr("p.id AS user_id").
		ColumnExpr("p.display_name").
		ColumnExpr("COALESCE(SUM(l.points), 0) AS points").
		ColumnExpr("COUNT(l.id) AS matches_counted").
		Join("LEFT JOIN (?) AS l ON l.user_id = p.id", sub).
		Where("p.is_admin = FALSE").
		GroupExpr("p.id, p.display_name").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListStageTotals: %w", err)
	}
	return rows, nil
}

func (r *Impl) ListStageHits(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]HitsRow, error) {
	db = r.resolveDB(db)
	sub := stageRows(db, stageID).ColumnExpr("pl.*")

	var rows []HitsRow
	err := db.NewSelect().
		TableExpr("participants AS p").
		ColumnExpr("p.id AS user_id").
		ColumnExpr("p.display_name").
		ColumnExpr("COUNT(l.id) AS matches_counted").
		ColumnExpr("COALESCE(SUM(l.points), 0) AS points").
		ColumnExpr("COUNT(*) FILTER (WHERE l.guessed_outcome) AS outcome_hits").
		ColumnExpr("COUNT(*) FILTER (WHERE l.guessed_diff) AS diff_hits").
		ColumnExpr("COUNT(*) FILTER (WHERE l.guessed_home AND l.guessed_away) AS exact_hits").
		ColumnExpr("COUNT(*) FILTER (WHERE l.near_miss) AS near_misses").
		Join("LEFT JOIN (?) AS l ON l.user_id = p.id", sub).
		Where("p.is_admin = FALSE").
		GroupExpr("p.id, p.display_name").
		OrderExpr("p.display_name ASC, p.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListStageHits: %w", err)
	}
	return rows, nil
}

// ListUserAwards returns a user's rows ordered by kickoff, then match id.
func (r *Impl) ListUserAwards(ctx context.Context, db bun.IDB, stageID, userID uuid.UUID) ([]AwardRow, error) {
	db = r.resolveDB(db)
	var rows []AwardRow
	err := stageRows(db, stageID).
		ColumnExpr("pl.match_id, m.kickoff_at, pl.points").
		Where("pl.user_id = ?", userID).
		OrderExpr("m.kickoff_at ASC, m.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListUserAwards: %w", err)
	}
	return rows, nil
}
