package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/born-ml/revad/internal/checkpoint"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/born-ml/revad"

// SpanObserver reports every sweep as a span under a parent context.
// The span is created when the sweep finishes and backdated by its duration.
type SpanObserver struct {
	ctx    context.Context
	tracer trace.Tracer
}

// NewSpanObserver creates an observer that records sweeps with tp.
func NewSpanObserver(ctx context.Context, tp trace.TracerProvider) *SpanObserver {
	return &SpanObserver{
		ctx:    ctx,
		tracer: tp.Tracer(instrumentationName),
	}
}

// ObserveSweep emits a "checkpoint.sweep" span for stats.
func (o *SpanObserver) ObserveSweep(stats checkpoint.SweepStats) {
	end := time.Now()
	_, span := o.tracer.Start(o.ctx, "checkpoint.sweep",
		trace.WithTimestamp(end.Add(-stats.Duration)),
		trace.WithAttributes(
			attribute.String("revad.strategy", string(stats.Strategy)),
			attribute.Int("revad.steps", stats.Steps),
			attribute.Int("revad.retained", stats.Retained),
			attribute.Int("revad.adjoint_calls", stats.AdjointCalls),
			attribute.Int("revad.restorations", stats.Restorations),
			attribute.Int("revad.peak_held", stats.PeakHeld),
		),
	)
	span.End(trace.WithTimestamp(end))
}

// NewStdoutProvider returns a tracer provider that pretty-prints finished
// spans to w synchronously. Call Shutdown when done.
func NewStdoutProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "revad"))),
	), nil
}
