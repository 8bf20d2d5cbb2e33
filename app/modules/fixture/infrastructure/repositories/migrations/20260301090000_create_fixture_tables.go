package fixturemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating fixture tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS teams (
					id UUID PRIMARY KEY,
					name TEXT NOT NULL UNIQUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);

				CREATE TABLE IF NOT EXISTS participants (
					id UUID PRIMARY KEY,
					display_name TEXT NOT NULL,
					is_admin BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);

				CREATE TABLE IF NOT EXISTS stages (
					id UUID PRIMARY KEY,
					name TEXT NOT NULL,
					status TEXT NOT NULL DEFAULT 'draft'
						CHECK (status IN ('draft', 'published', 'locked')),
					matches_required INTEGER NOT NULL DEFAULT 0 CHECK (matches_required >= 0),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create teams/participants/stages: %w", err)
			}

			// Single-row pointer: the CHECK pins the only legal key to TRUE.
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS current_stage (
					singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
					stage_id UUID NOT NULL REFERENCES stages(id) ON DELETE CASCADE,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create current_stage: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS tours (
					id UUID PRIMARY KEY,
					stage_id UUID NOT NULL REFERENCES stages(id) ON DELETE CASCADE,
					tour_no INTEGER NOT NULL CHECK (tour_no > 0),
					name TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (stage_id, tour_no)
				);

				CREATE TABLE IF NOT EXISTS matches (
					id UUID PRIMARY KEY,
					stage_id UUID NOT NULL REFERENCES stages(id) ON DELETE CASCADE,
					tour_id UUID NOT NULL REFERENCES tours(id) ON DELETE CASCADE,
					home_team_id UUID NOT NULL REFERENCES teams(id),
					away_team_id UUID NOT NULL REFERENCES teams(id),
					kickoff_at TIMESTAMPTZ NOT NULL,
					deadline_at TIMESTAMPTZ NOT NULL,
					status TEXT NOT NULL DEFAULT 'scheduled'
						CHECK (status IN ('scheduled', 'live', 'finished', 'canceled')),
					home_score INTEGER CHECK (home_score >= 0),
					away_score INTEGER CHECK (away_score >= 0),
					result_recorded_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (home_team_id <> away_team_id),
					CHECK ((home_score IS NULL) = (away_score IS NULL))
				);
				CREATE INDEX IF NOT EXISTS idx_matches_stage_id ON matches (stage_id);
				CREATE INDEX IF NOT EXISTS idx_matches_deadline_at ON matches (deadline_at) WHERE status = 'scheduled';

				CREATE TABLE IF NOT EXISTS predictions (
					id UUID PRIMARY KEY,
					match_id UUID NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
					user_id UUID NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
					home_pred INTEGER CHECK (home_pred >= 0),
					away_pred INTEGER CHECK (away_pred >= 0),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (match_id, user_id),
					CHECK ((home_pred IS NULL) = (away_pred IS NULL))
				);
			`); err != nil {
				return fmt.Errorf("failed to create tours/matches/predictions: %w", err)
			}

			fmt.Println("Fixture tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping fixture tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS predictions;
			DROP TABLE IF EXISTS matches;
			DROP TABLE IF EXISTS tours;
			DROP TABLE IF EXISTS current_stage;
			DROP TABLE IF EXISTS stages;
			DROP TABLE IF EXISTS participants;
			DROP TABLE IF EXISTS teams;
		`)
		return err
	})
}
