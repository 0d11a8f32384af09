package workflows

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/client"
)

// DefaultTaskQueue is the task queue the chatops worker polls.
const DefaultTaskQueue = "chatops"

// Starter starts chatops workflows on a Temporal cluster.
type Starter struct {
	client    client.Client
	taskQueue string
	timeout   time.Duration
}

// NewStarter returns a Starter for taskQueue. An empty queue uses
// DefaultTaskQueue.
func NewStarter(c client.Client, taskQueue string) *Starter {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}
	return &Starter{client: c, taskQueue: taskQueue, timeout: 30 * time.Second}
}

// StartComment starts ChatOpsCommentWorkflow for cfg. The workflow ID is
// derived from the comment, so a redelivered webhook for a running workflow
// returns the existing run.
func (s *Starter) StartComment(ctx context.Context, cfg ChatOpsCommentConfig) (client.WorkflowRun, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid comment workflow config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := client.StartWorkflowOptions{
		ID:        CommentWorkflowID(cfg.Trigger),
		TaskQueue: s.taskQueue,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, ChatOpsCommentWorkflow, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}
	return run, nil
}
