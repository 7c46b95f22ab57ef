package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"

	"conduit/internal/logging"
)

// TypeWelcome identifies the welcome-notification task on the queue.
const TypeWelcome = "notification:welcome"

var (
	tracer        = otel.Tracer("conduit-worker")
	meter         = otel.Meter("conduit-worker")
	jobsCompleted metric.Int64Counter
	jobsFailed    metric.Int64Counter
	jobsDuration  metric.Float64Histogram
)

func init() {
	var err error

	jobsCompleted, err = meter.Int64Counter(
		"jobs.completed",
		metric.WithDescription("Total number of jobs completed successfully"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs completed counter")
	}

	jobsFailed, err = meter.Int64Counter(
		"jobs.failed",
		metric.WithDescription("Total number of jobs failed"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs failed counter")
	}

	jobsDuration, err = meter.Float64Histogram(
		"jobs.duration_ms",
		metric.WithDescription("Job processing duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs duration histogram")
	}
}

type WelcomePayload struct {
	UserID       uint              `json:"user_id"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	TraceContext map[string]string `json:"trace_context"`
}

// HandleWelcome greets a freshly registered account. Delivery is simulated;
// the interesting part is the propagated trace context.
func HandleWelcome(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	var payload WelcomePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		recordJobMetrics(ctx, TypeWelcome, false, time.Since(start))
		return err
	}

	parentCtx := otel.GetTextMapPropagator().Extract(
		context.Background(),
		propagation.MapCarrier(payload.TraceContext),
	)

	ctx, span := tracer.Start(parentCtx, "job.welcome")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user.id", int64(payload.UserID)),
		attribute.String("job.type", TypeWelcome),
	)

	logging.Info(ctx).
		Uint("user_id", payload.UserID).
		Str("username", payload.Username).
		Msg("processing welcome notification")

	time.Sleep(100 * time.Millisecond)

	span.SetStatus(codes.Ok, "welcome notification processed")
	span.SetAttributes(attribute.Bool("job.success", true))

	logging.Info(ctx).
		Uint("user_id", payload.UserID).
		Msg("welcome notification processed")

	recordJobMetrics(ctx, TypeWelcome, true, time.Since(start))

	return nil
}

func recordJobMetrics(ctx context.Context, jobType string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("job.type", jobType),
	}

	if success {
		if jobsCompleted != nil {
			jobsCompleted.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	} else {
		if jobsFailed != nil {
			jobsFailed.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}

	if jobsDuration != nil {
		jobsDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	}
}
