package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/fyrsmithlabs/chatops/internal/command"
	"github.com/fyrsmithlabs/chatops/internal/github"
)

// CommentWorkflowID returns a workflow ID unique to the triggering comment,
// so redelivered webhooks do not validate the same comment twice.
func CommentWorkflowID(t github.Trigger) string {
	return fmt.Sprintf("chatops-%s-%s-comment-%d", t.Owner, t.Repo, t.CommentID)
}

// ChatOpsCommentWorkflow validates a chatops comment and answers it.
//
// This workflow:
// 1. Validates the first slash command in the comment body
// 2. Acknowledges an accepted command with an eyes reaction
// 3. Posts the syntax error report for a rejected command and reacts confused
//
// A missing command registry fails the workflow after the rejection is posted.
func ChatOpsCommentWorkflow(ctx workflow.Context, config ChatOpsCommentConfig) (*ChatOpsCommentResult, error) {
	logger := workflow.GetLogger(ctx)
	result := &ChatOpsCommentResult{}

	if err := config.Validate(); err != nil {
		wfErr := NewWorkflowError("validate_config", ErrorSeverityCritical, err, "")
		result.Errors = append(result.Errors, FormatErrorForResult("validate_config", err))
		return result, wfErr
	}

	t := config.Trigger
	logger.Info("Starting chatops comment workflow",
		"repo", t.FullName(),
		"issue", t.IssueNumber,
		"comment", t.CommentID,
		"delivery", config.DeliveryID)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var a *Activities

	var validated ValidateCommentOutput
	err := workflow.ExecuteActivity(ctx, a.ValidateCommentActivity, ValidateCommentInput{Body: t.Body}).Get(ctx, &validated)
	if err != nil {
		result.Errors = append(result.Errors, FormatErrorForResult("validate_comment", err))
		countExecution(ctx, "error")
		return result, NewWorkflowError("validate_comment", ErrorSeverityCritical, err, t.FullName())
	}

	if !validated.Found {
		logger.Info("No chatops command in comment")
		countExecution(ctx, "no_command")
		return result, nil
	}

	res := validated.Result
	result.Found = true
	result.Kind = res.Kind
	result.Accepted = res.Accepted()
	result.Command = res.Command
	result.Args = res.Args
	result.Message = res.Message

	if res.Accepted() {
		logger.Info("Command accepted", "command", res.Command, "args", len(res.Args))
		react(ctx, t, github.ReactionEyes, result)
		countExecution(ctx, "accepted")
		return result, nil
	}

	logger.Info("Command rejected", "kind", string(res.Kind), "message", res.Message)

	// HIGH: the reaction should still land if the comment fails
	var posted PostCommentResult
	err = workflow.ExecuteActivity(ctx, a.PostSyntaxErrorActivity, PostSyntaxErrorInput{Trigger: t, Result: res}).Get(ctx, &posted)
	if err != nil {
		logger.Error("Failed to post syntax error comment", "error", err)
		result.Errors = append(result.Errors, FormatErrorForResult("post_syntax_error", err))
	} else {
		result.CommentURL = posted.URL
	}

	react(ctx, t, github.ReactionConfused, result)

	if res.Kind == command.KindRegistryUnavailable {
		err := errors.New(res.Message)
		result.Errors = append(result.Errors, FormatErrorForResult("load_registry", err))
		countExecution(ctx, "error")
		return result, NewWorkflowError("load_registry", ErrorSeverityCritical, err, t.FullName())
	}

	countExecution(ctx, "rejected")
	return result, nil
}

// react adds a reaction to the triggering comment. Failures are LOW severity.
func react(ctx workflow.Context, t github.Trigger, content string, result *ChatOpsCommentResult) {
	if !t.CanReact() {
		return
	}
	var a *Activities
	err := workflow.ExecuteActivity(ctx, a.AddReactionActivity, AddReactionInput{Trigger: t, Content: content}).Get(ctx, nil)
	if err != nil {
		workflow.GetLogger(ctx).Warn("Failed to add reaction", "reaction", content, "error", err)
		return
	}
	result.Reaction = content
}

func countExecution(ctx workflow.Context, outcome string) {
	if workflow.IsReplaying(ctx) {
		return
	}
	commentWorkflowCounter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
