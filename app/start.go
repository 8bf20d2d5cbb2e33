package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/matchday-pool/predictor/app/observability/attr"
)

const readHeaderTimeout = 10 * time.Second

// Run serves HTTP and runs the background modules until ctx is done, then
// shuts everything down within the configured timeout.
func (app *App) Run(ctx context.Context) error {
	logger := app.Obs.Logger

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go app.Reminder.Run(ctx, &wg)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", attr.String("addr", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown requested")
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", attr.Error(err))
		_ = app.server.Close()
	}
	if err := app.Reminder.Close(shutdownCtx); err != nil {
		logger.Error("Reminder queue shutdown failed", attr.Error(err))
	}
	stop()
	wg.Wait()

	logger.Info("Application stopped")
	return runErr
}
