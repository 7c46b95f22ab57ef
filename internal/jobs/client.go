package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"

	"conduit/internal/jobs/tasks"
	"conduit/internal/logging"
)

const DefaultQueue = "default"

var (
	tracer       = otel.Tracer("conduit")
	meter        = otel.Meter("conduit")
	jobsEnqueued metric.Int64Counter
)

type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) (*Client, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})

	var err error
	jobsEnqueued, err = meter.Int64Counter(
		"jobs.enqueued",
		metric.WithDescription("Total number of jobs enqueued"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create jobs enqueued counter")
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) EnqueueWelcome(ctx context.Context, userID uint, email, username string) error {
	ctx, span := tracer.Start(ctx, "job.enqueue.welcome")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user.id", int64(userID)),
		attribute.String("job.type", tasks.TypeWelcome),
	)

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	// The trace context rides along so the worker span joins the
	// registration trace.
	payload := tasks.WelcomePayload{
		UserID:       userID,
		Email:        email,
		Username:     username,
		TraceContext: carrier,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(tasks.TypeWelcome, payloadBytes)
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if jobsEnqueued != nil {
		jobsEnqueued.Add(ctx, 1, metric.WithAttributes(
			attribute.String("job.type", tasks.TypeWelcome),
		))
	}

	span.SetAttributes(
		attribute.String("job.id", info.ID),
		attribute.String("job.queue", info.Queue),
	)

	logging.Info(ctx).
		Str("job_id", info.ID).
		Str("job_type", tasks.TypeWelcome).
		Uint("user_id", userID).
		Msg("job enqueued")

	return nil
}
