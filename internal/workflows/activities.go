package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chatops/internal/command"
	"github.com/fyrsmithlabs/chatops/internal/github"
	"github.com/fyrsmithlabs/chatops/internal/logging"
	"github.com/fyrsmithlabs/chatops/internal/report"
	"github.com/fyrsmithlabs/chatops/internal/telemetry"
)

// ErrTypeInvalidReaction marks reaction failures that retrying cannot fix.
const ErrTypeInvalidReaction = "InvalidReaction"

// RegistrySource serves the current command registry snapshot.
type RegistrySource interface {
	Registry() *command.Registry
}

// Activities holds the dependencies of the chatops activities. Activities
// are registered as methods so the GitHub token never enters workflow
// history.
type Activities struct {
	Commands  RegistrySource
	Poster    github.Poster
	GuidePath string
	Logger    *logging.Logger
	Validator *telemetry.Validator
}

func (a *Activities) logger() *logging.Logger {
	if a.Logger == nil {
		return logging.NewNop()
	}
	return a.Logger
}

func (a *Activities) registry() *command.Registry {
	if a.Commands == nil {
		return nil
	}
	return a.Commands.Registry()
}

// ValidateCommentActivity validates the first slash command in the comment
// body against the current registry.
func (a *Activities) ValidateCommentActivity(ctx context.Context, input ValidateCommentInput) (*ValidateCommentOutput, error) {
	defer recordActivity(ctx, "validate_comment", time.Now(), nil)

	res, found := a.Validator.Validate(ctx, telemetry.SourceWorkflow, input.Body, a.registry())
	if found {
		a.logger().Info(ctx, "validated command",
			zap.String("command.line", res.Line),
			zap.String("kind", string(res.Kind)))
	}
	return &ValidateCommentOutput{Found: found, Result: res}, nil
}

// PostSyntaxErrorActivity posts the rejection report for res on the
// triggering pull request.
func (a *Activities) PostSyntaxErrorActivity(ctx context.Context, input PostSyntaxErrorInput) (result *PostCommentResult, err error) {
	defer func(start time.Time) { recordActivity(ctx, "post_syntax_error", start, err) }(time.Now())

	if a.Poster == nil {
		return nil, errors.New("no GitHub client configured")
	}
	ctx = logging.WithTrigger(ctx, input.Trigger.LogTrigger())

	guide, gerr := report.LoadGuide(a.GuidePath, a.registry())
	if gerr != nil {
		a.logger().Warn(ctx, "usage guide unreadable, using generated guide", zap.Error(gerr))
	}

	url, err := a.Poster.PostComment(ctx, input.Trigger, report.FormatRejection(input.Result, guide))
	if err != nil {
		return nil, fmt.Errorf("failed to post syntax error comment: %w", err)
	}
	return &PostCommentResult{URL: url}, nil
}

// AddReactionActivity reacts to the triggering comment.
func (a *Activities) AddReactionActivity(ctx context.Context, input AddReactionInput) (err error) {
	defer func(start time.Time) { recordActivity(ctx, "add_reaction", start, err) }(time.Now())

	if input.Content != "" && !github.ValidReaction(input.Content) {
		return temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("invalid reaction %q", input.Content), ErrTypeInvalidReaction, nil)
	}
	if a.Poster == nil {
		return errors.New("no GitHub client configured")
	}
	ctx = logging.WithTrigger(ctx, input.Trigger.LogTrigger())
	return a.Poster.AddReaction(ctx, input.Trigger, input.Content)
}

func recordActivity(ctx context.Context, name string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("activity", name))
	activityDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		activityErrorCounter.Add(ctx, 1, attrs)
	}
}
