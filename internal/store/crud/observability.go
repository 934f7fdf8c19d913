package crud

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/5w1tchy/libapi/internal/store/crud"

type metrics struct {
	count    metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// Instruments come from the global providers, which are no-ops until a
// process installs an SDK.
func newMetrics(meter metric.Meter) metrics {
	count, _ := meter.Int64Counter("libapi.db.query.count",
		metric.WithDescription("Repository statements executed"),
		metric.WithUnit("{query}"),
	)
	duration, _ := meter.Float64Histogram("libapi.db.query.duration",
		metric.WithDescription("Repository statement duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500),
	)
	errs, _ := meter.Int64Counter("libapi.db.query.errors",
		metric.WithDescription("Repository statements that failed"),
		metric.WithUnit("{error}"),
	)
	return metrics{count: count, duration: duration, errors: errs}
}

type observer struct {
	table   string
	tracer  trace.Tracer
	metrics metrics
	log     zerolog.Logger
	slow    time.Duration
}

func newObserver(table string, log zerolog.Logger, slow time.Duration) observer {
	return observer{
		table:   table,
		tracer:  otel.Tracer(instrumentationName),
		metrics: newMetrics(otel.Meter(instrumentationName)),
		log:     log.With().Str("table", table).Logger(),
		slow:    slow,
	}
}

// run executes fn inside a span named "<table>.<op>" and records count,
// duration and error metrics for it.
func (o observer) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := o.tracer.Start(ctx, o.table+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.sql.table", o.table),
			attribute.String("db.operation", op),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	attrs := metric.WithAttributes(
		attribute.String("db.sql.table", o.table),
		attribute.String("db.operation", op),
	)
	o.metrics.count.Add(ctx, 1, attrs)
	o.metrics.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)

	if err != nil {
		o.metrics.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	switch {
	case o.slow > 0 && elapsed >= o.slow:
		o.log.Warn().Str("op", op).Dur("elapsed", elapsed).Err(err).Msg("slow query")
	default:
		o.log.Debug().Str("op", op).Dur("elapsed", elapsed).Err(err).Msg("query")
	}
	return err
}
