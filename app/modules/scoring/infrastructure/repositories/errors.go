package ledgerdb

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidEntry indicates an entry that does not belong to the replaced match.
	ErrInvalidEntry = errors.New("ledger entry does not match replace target")
)
