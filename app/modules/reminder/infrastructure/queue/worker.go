package reminderqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	reminderservice "github.com/matchday-pool/predictor/app/modules/reminder/application"
	"github.com/matchday-pool/predictor/app/observability/attr"
	"github.com/riverqueue/river"
)

// SweepWorker runs the sweep when River hands it a SweepJob.
type SweepWorker struct {
	river.WorkerDefaults[SweepJob]
	sweeper reminderservice.Service
	logger  *slog.Logger
	now     func() time.Time
}

func NewSweepWorker(sweeper reminderservice.Service, logger *slog.Logger) *SweepWorker {
	return &SweepWorker{sweeper: sweeper, logger: logger, now: time.Now}
}

func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepJob]) error {
	res, err := w.sweeper.SweepMissingPredictions(ctx, w.now().UTC())
	if err != nil {
		return fmt.Errorf("sweep job %d: %w", job.ID, err)
	}
	w.logger.InfoContext(ctx, "Missing prediction sweep finished",
		attr.Int64("job_id", job.ID),
		attr.Int("matches_checked", res.MatchesChecked),
		attr.Int("events_published", res.EventsPublished),
		attr.Int("users_reminded", res.UsersReminded),
	)
	return nil
}

// Timeout bounds a single sweep.
func (w *SweepWorker) Timeout(*river.Job[SweepJob]) time.Duration { return time.Minute }
