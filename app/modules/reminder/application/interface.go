package reminderservice

import (
	"context"
	"time"
)

// Service finds participants who still owe a prediction for matches that
// close soon and announces them.
type Service interface {
	SweepMissingPredictions(ctx context.Context, now time.Time) (SweepResult, error)
}
