// Package workflows provides the Temporal workflow that answers chatops
// comments delivered by the webhook service.
//
// This file contains the workflow and activity payload types.
package workflows

import (
	"fmt"

	"github.com/fyrsmithlabs/chatops/internal/command"
	"github.com/fyrsmithlabs/chatops/internal/github"
)

// ChatOpsCommentConfig is the workflow input.
type ChatOpsCommentConfig struct {
	Trigger    github.Trigger // Comment that triggered the run
	DeliveryID string         // Webhook delivery ID, for log correlation
}

// Validate checks that all required fields are set.
func (c *ChatOpsCommentConfig) Validate() error {
	if c.Trigger.Owner == "" {
		return fmt.Errorf("Owner is required")
	}
	if c.Trigger.Repo == "" {
		return fmt.Errorf("Repo is required")
	}
	if c.Trigger.IssueNumber <= 0 {
		return fmt.Errorf("IssueNumber must be positive")
	}
	return nil
}

// ChatOpsCommentResult summarizes what the workflow did.
type ChatOpsCommentResult struct {
	Found      bool         // Whether the comment contained a command line
	Accepted   bool         // Whether the command passed validation
	Kind       command.Kind // Validation outcome
	Command    string       // Accepted command name
	Args       []string     // Accepted arguments
	Message    string       // Rejection message
	CommentURL string       // URL of the posted syntax error comment
	Reaction   string       // Reaction added to the triggering comment
	Errors     []string     // Any errors encountered
}

// ValidateCommentInput is the input to ValidateCommentActivity.
type ValidateCommentInput struct {
	Body string
}

// ValidateCommentOutput is the output of ValidateCommentActivity.
type ValidateCommentOutput struct {
	Found  bool
	Result command.Result
}

// PostSyntaxErrorInput is the input to PostSyntaxErrorActivity.
type PostSyntaxErrorInput struct {
	Trigger github.Trigger
	Result  command.Result
}

// PostCommentResult represents the result of posting a GitHub comment.
type PostCommentResult struct {
	URL string // URL of the posted comment
}

// AddReactionInput is the input to AddReactionActivity.
type AddReactionInput struct {
	Trigger github.Trigger
	Content string
}
