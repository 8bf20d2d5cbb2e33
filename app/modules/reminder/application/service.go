package reminderservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matchday-pool/predictor/app/eventbus"
	"github.com/matchday-pool/predictor/app/observability/attr"
	"github.com/matchday-pool/predictor/app/observability/metrics"
	"github.com/matchday-pool/predictor/app/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "ReminderService"

// ReminderService implements the Service interface.
type ReminderService struct {
	fixtures FixtureReader
	events   eventbus.Publisher
	logger   *slog.Logger
	metrics  metrics.OperationMetrics
	tracer   trace.Tracer
	window   time.Duration
}

var _ Service = (*ReminderService)(nil)

// NewReminderService creates a new ReminderService looking window ahead of
// each sweep.
func NewReminderService(
	fixtures FixtureReader,
	events eventbus.Publisher,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
	window time.Duration,
) *ReminderService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &ReminderService{
		fixtures: fixtures,
		events:   events,
		logger:   logger,
		metrics:  m,
		tracer:   tracer,
		window:   window,
	}
}

// SweepMissingPredictions looks at matches whose deadline falls in
// (now, now+window] and publishes one event per match that still has
// participants without a complete prediction. A publish failure for one
// match does not stop the sweep; the joined errors are returned at the end.
func (s *ReminderService) SweepMissingPredictions(ctx context.Context, now time.Time) (SweepResult, error) {
	type res = results.OperationResult[SweepResult, error]
	result, err := withTelemetry(s, ctx, "SweepMissingPredictions", now.UTC().Format(time.RFC3339), func(ctx context.Context) (res, error) {
		out := SweepResult{From: now, To: now.Add(s.window)}

		closing, err := s.fixtures.ListMatchesClosingBetween(ctx, nil, out.From, out.To)
		if err != nil {
			return res{}, fmt.Errorf("failed to list closing matches: %w", err)
		}

		var publishErrs []error
		for _, m := range closing {
			out.MatchesChecked++
			missing, err := s.fixtures.ListParticipantsMissingPrediction(ctx, nil, m.MatchID)
			if err != nil {
				return res{}, fmt.Errorf("failed to list missing predictions for %s: %w", m.MatchID, err)
			}
			if len(missing) == 0 {
				continue
			}

			payload := eventbus.PredictionsMissingPayload{
				MatchID:    m.MatchID,
				StageID:    m.StageID,
				DeadlineAt: m.DeadlineAt,
				UserIDs:    missing,
			}
			if err := s.events.Publish(ctx, eventbus.PredictionsMissingTopic, payload); err != nil {
				s.logger.WarnContext(ctx, "Failed to publish missing predictions",
					attr.ExtractCorrelationID(ctx),
					attr.MatchID(m.MatchID),
					attr.Error(err),
				)
				publishErrs = append(publishErrs, err)
				continue
			}
			out.EventsPublished++
			out.UsersReminded += len(missing)
		}

		if len(publishErrs) > 0 {
			return res{}, errors.Join(publishErrs...)
		}
		return results.SuccessResult[SweepResult, error](out), nil
	})
	if err != nil {
		return SweepResult{}, err
	}
	return *result.Success, nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ReminderService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", operationName),
		attr.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}
