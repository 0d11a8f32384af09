package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/fyrsmithlabs/chatops/internal/command"
)

const instrumentationName = "github.com/fyrsmithlabs/chatops/internal/telemetry"

// Validation sources.
const (
	SourceCLI      = "cli"
	SourceWebhook  = "webhook"
	SourceWorkflow = "workflow"
)

// Outcome attribute values.
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeNoCommand = "no_command"
)

// Validator wraps command.Validate with a span and validation metrics.
type Validator struct {
	tracer   oteltrace.Tracer
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewValidator creates a Validator using tel's providers. A nil tel uses the
// global providers.
func NewValidator(tel *Telemetry) *Validator {
	meter := tel.Meter(instrumentationName)
	v := &Validator{tracer: tel.Tracer(instrumentationName)}

	// instrument creation only fails on invalid names; fall back to no-ops
	var err error
	if v.total, err = meter.Int64Counter(
		"chatops.validations",
		metric.WithDescription("Comments checked for slash commands"),
		metric.WithUnit("{validation}"),
	); err != nil {
		v.total = nil
	}
	if v.duration, err = meter.Float64Histogram(
		"chatops.validation.duration",
		metric.WithDescription("Time spent validating a comment"),
		metric.WithUnit("s"),
	); err != nil {
		v.duration = nil
	}
	return v
}

// Validate validates text against reg and records the outcome under source.
func (v *Validator) Validate(ctx context.Context, source, text string, reg *command.Registry) (command.Result, bool) {
	if v == nil {
		return command.Validate(text, reg)
	}

	ctx, span := v.tracer.Start(ctx, "chatops.validate",
		oteltrace.WithAttributes(attribute.String("chatops.source", source)))
	defer span.End()

	start := time.Now()
	res, found := command.Validate(text, reg)
	elapsed := time.Since(start).Seconds()

	outcome, kind := OutcomeNoCommand, ""
	if found {
		kind = string(res.Kind)
		outcome = OutcomeRejected
		if res.Accepted() {
			outcome = OutcomeAccepted
		}
	}

	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.String("outcome", outcome),
		attribute.String("kind", kind),
	}
	span.SetAttributes(
		attribute.String("chatops.outcome", outcome),
		attribute.String("chatops.kind", kind),
		attribute.String("chatops.command", res.Command),
	)
	if res.Rejected() {
		span.SetStatus(codes.Error, res.Message)
	}

	if v.total != nil {
		v.total.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if v.duration != nil {
		v.duration.Record(ctx, elapsed, metric.WithAttributes(attribute.String("source", source)))
	}

	return res, found
}
