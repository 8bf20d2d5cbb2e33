package ledgerdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the write side of the points ledger.
type Repository interface {
	// ReplaceMatchEntries makes entries the full set of rows for
	// (matchID, reason), atomically: rows are upserted on
	// (user_id, match_id, reason) and rows for users absent from entries are
	// deleted. Either everything applies or nothing does.
	ReplaceMatchEntries(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string, entries []LedgerEntry) (ReplaceStats, error)
	DeleteMatchEntries(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string) (int, error)
	ListMatchEntries(ctx context.Context, db bun.IDB, matchID uuid.UUID, reason string) ([]LedgerEntry, error)
}
