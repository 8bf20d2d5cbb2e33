package ledgerdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new ledger repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// upsertColumns are overwritten on conflict. id and the key columns stay.
var upsertColumns = []string{
	"points",
	"points_outcome",
	"points_diff",
	"points_h1",
	"points_h2",
	"points_bonus",
	"points_outcome_base",
	"points_outcome_bonus",
	"points_diff_base",
	"points_diff_bonus",
	"outcome_multiplier",
	"diff_multiplier",
	"pred_home",
	"pred_away",
	"actual_home",
	"actual_away",
	"guessed_home",
	"guessed_away",
	"guessed_outcome",
	"guessed_diff",
	"near_miss",
	"scored_at",
}

// ReplaceMatchEntries runs in its own transaction, or in a savepoint when db
// is already a transaction.
func (r *Impl) ReplaceMatchEntries(
	ctx context.Context,
	db bun.IDB,
	matchID uuid.UUID,
	reason string,
	entries []LedgerEntry,
) (ReplaceStats, error) {
	db = r.resolveDB(db)

	userIDs := make([]uuid.UUID, 0, len(entries))
	for i := range entries {
		if entries[i].MatchID != matchID || entries[i].Reason != reason {
			return ReplaceStats{}, fmt.Errorf("ledgerdb.ReplaceMatchEntries: user %s: %w", entries[i].UserID, ErrInvalidEntry)
		}
		userIDs = append(userIDs, entries[i].UserID)
	}

	var stats ReplaceStats
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		del := tx.NewDelete().
			Model((*LedgerEntry)(nil)).
			Where("match_id = ?", matchID).
			Where("reason = ?", reason)
		if len(userIDs) > 0 {
			del = del.Where("user_id NOT IN (?)", bun.In(userIDs))
		}
		res, err := del.Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete stale rows: %w", err)
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete stale rows: %w", err)
		}
		stats.Removed = int(removed)

		if len(entries) == 0 {
			return nil
		}

		ins := tx.NewInsert().
			Model(&entries).
			On("CONFLICT (user_id, match_id, reason) DO UPDATE")
		for _, col := range upsertColumns {
			ins = ins.Set(col + " = EXCLUDED." + col)
		}
		if _, err := ins.Returning("id").Exec(ctx); err != nil {
			return fmt.Errorf("upsert rows: %w", err)
		}
		stats.Written = len(entries)
		return nil
	})
	if err != nil {
		return ReplaceStats{}, fmt.Errorf("ledgerdb.ReplaceMatchEntries: %w", err)
	}
	return stats, nil
}

func (r *Impl) DeleteMatchEntries(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string) (int, error) {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*LedgerEntry)(nil)).
		Where("match_id = ?", matchID).
		Where("reason = ?", reason).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("ledgerdb.DeleteMatchEntries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ledgerdb.DeleteMatchEntries: %w", err)
	}
	return int(n), nil
}

func (r *Impl) ListMatchEntries(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string) ([]LedgerEntry, error) {
	db = r.resolveDB(db)
	var out []LedgerEntry
	err := db.NewSelect().
		Model(&out).
		Where("pl.match_id = ?", matchID).
		Where("pl.reason = ?", reason).
		Order("pl.user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledgerdb.ListMatchEntries: %w", err)
	}
	return out, nil
}
