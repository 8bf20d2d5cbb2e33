package scoringservice

import "errors"

// ErrLedgerReplaceFailed wraps a storage failure during the ledger replace.
// The previous rows are still in place and the call is safe to retry.
var ErrLedgerReplaceFailed = errors.New("ledger replace failed; previous rows kept")
