package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Trigger identifies the comment that triggered a chatops run.
type Trigger struct {
	Repo     string // owner/name
	Issue    int
	Comment  int64
	Delivery string // webhook delivery ID, empty for Actions runs
}

type triggerCtxKey struct{}
type loggerCtxKey struct{}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 7)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}

	if t, ok := TriggerFromContext(ctx); ok {
		if t.Repo != "" {
			fields = append(fields, zap.String("repo", t.Repo))
		}
		if t.Issue != 0 {
			fields = append(fields, zap.Int("issue.number", t.Issue))
		}
		if t.Comment != 0 {
			fields = append(fields, zap.Int64("comment.id", t.Comment))
		}
		if t.Delivery != "" {
			fields = append(fields, zap.String("delivery.id", t.Delivery))
		}
	}

	return fields
}

// WithTrigger attaches trigger identifiers to ctx.
func WithTrigger(ctx context.Context, t Trigger) context.Context {
	return context.WithValue(ctx, triggerCtxKey{}, t)
}

// TriggerFromContext returns the trigger attached to ctx.
func TriggerFromContext(ctx context.Context) (Trigger, bool) {
	t, ok := ctx.Value(triggerCtxKey{}).(Trigger)
	return t, ok
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves the logger from context, or a nop logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
