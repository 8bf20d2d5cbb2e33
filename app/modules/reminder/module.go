package reminder

import (
	"context"
	"fmt"
	"sync"

	"github.com/matchday-pool/predictor/app/eventbus"
	fixturedb "github.com/matchday-pool/predictor/app/modules/fixture/infrastructure/repositories"
	reminderservice "github.com/matchday-pool/predictor/app/modules/reminder/application"
	reminderqueue "github.com/matchday-pool/predictor/app/modules/reminder/infrastructure/queue"
	"github.com/matchday-pool/predictor/app/observability"
	"github.com/matchday-pool/predictor/config"
)

// Module represents the missing-prediction reminder module.
type Module struct {
	Service reminderservice.Service
	queue   *reminderqueue.Service
	obs     *observability.Observability
}

// NewReminderModule builds the sweep service and, when enabled, the River
// queue that runs it periodically.
func NewReminderModule(
	ctx context.Context,
	obs *observability.Observability,
	cfg *config.Config,
	fixtures fixturedb.Repository,
	events eventbus.Publisher,
) (*Module, error) {
	obs.Logger.InfoContext(ctx, "reminder.NewReminderModule initializing")

	service := reminderservice.NewReminderService(fixtures, events, obs.Logger, obs.Metrics, obs.Tracer("reminder"), cfg.Reminder.Window)
	m := &Module{Service: service, obs: obs}

	if !cfg.Reminder.Enabled {
		obs.Logger.InfoContext(ctx, "Reminder sweep disabled")
		return m, nil
	}

	queue, err := reminderqueue.NewService(ctx, cfg.Postgres.DSN, service, cfg.Reminder.Interval, obs.Logger, obs.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder queue: %w", err)
	}
	m.queue = queue
	return m, nil
}

// Run starts the queue and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	if wg != nil {
		defer wg.Done()
	}
	if m.queue == nil {
		return
	}
	if err := m.queue.Start(ctx); err != nil {
		m.obs.Logger.ErrorContext(ctx, "Reminder queue failed to start", "error", err)
		return
	}
	<-ctx.Done()
	m.obs.Logger.Info("Reminder module goroutine stopped")
}

// Close stops the queue, waiting for a running sweep.
func (m *Module) Close(ctx context.Context) error {
	if m.queue == nil {
		return nil
	}
	return m.queue.Stop(ctx)
}
