package ledgermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating points_ledger table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS points_ledger (
					id BIGSERIAL PRIMARY KEY,
					user_id UUID NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
					match_id UUID NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
					reason TEXT NOT NULL,
					points DOUBLE PRECISION NOT NULL,
					points_outcome DOUBLE PRECISION NOT NULL,
					points_diff DOUBLE PRECISION NOT NULL,
					points_h1 DOUBLE PRECISION NOT NULL,
					points_h2 DOUBLE PRECISION NOT NULL,
					points_bonus DOUBLE PRECISION NOT NULL,
					points_outcome_base DOUBLE PRECISION NOT NULL,
					points_outcome_bonus DOUBLE PRECISION NOT NULL,
					points_diff_base DOUBLE PRECISION NOT NULL,
					points_diff_bonus DOUBLE PRECISION NOT NULL,
					outcome_multiplier DOUBLE PRECISION NOT NULL,
					diff_multiplier DOUBLE PRECISION NOT NULL,
					pred_home INTEGER NOT NULL,
					pred_away INTEGER NOT NULL,
					actual_home INTEGER NOT NULL,
					actual_away INTEGER NOT NULL,
					guessed_home BOOLEAN NOT NULL,
					guessed_away BOOLEAN NOT NULL,
					guessed_outcome BOOLEAN NOT NULL,
					guessed_diff BOOLEAN NOT NULL,
					near_miss BOOLEAN NOT NULL,
					scored_at TIMESTAMPTZ NOT NULL,
					CONSTRAINT uq_points_ledger_user_match_reason UNIQUE (user_id, match_id, reason)
				);
				CREATE INDEX IF NOT EXISTS idx_points_ledger_match_id ON points_ledger (match_id);
			`); err != nil {
				return fmt.Errorf("failed to create points_ledger: %w", err)
			}
			fmt.Println("points_ledger created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping points_ledger table...")
		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS points_ledger;`)
		return err
	})
}
