package fixturedb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new fixture repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

const uniqueViolation = "23505"

// mapWriteErr turns a unique violation into ErrConflict.
func mapWriteErr(op string, err error) error {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
		return fmt.Errorf("fixturedb.%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("fixturedb.%s: %w", op, err)
}

// mapReadErr turns sql.ErrNoRows into ErrNotFound.
func mapReadErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("fixturedb.%s: %w", op, err)
}

func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("fixturedb.%s: %w", op, err)
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
