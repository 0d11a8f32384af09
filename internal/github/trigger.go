package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v57/github"

	"github.com/fyrsmithlabs/chatops/internal/logging"
)

// Event names chatops handles.
const (
	EventIssueComment     = "issue_comment"
	EventWorkflowDispatch = "workflow_dispatch"
)

// ErrMissingPRNumber is returned for workflow_dispatch runs without a PR number.
var ErrMissingPRNumber = errors.New("Missing PR number for workflow_dispatch.")

// Trigger identifies the comment a chatops run responds to.
type Trigger struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	IssueNumber int    `json:"issue_number"`
	// CommentID is zero for workflow_dispatch runs, which have no comment
	// to react to.
	CommentID int64  `json:"comment_id"`
	Body      string `json:"body"`
	Author    string `json:"author,omitempty"`
	AuthorBot bool   `json:"author_bot,omitempty"`
	Action    string `json:"action,omitempty"`
}

// FullName returns owner/repo.
func (t Trigger) FullName() string {
	return t.Owner + "/" + t.Repo
}

// CanReact reports whether there is a real comment to react to.
func (t Trigger) CanReact() bool {
	return t.CommentID != 0
}

// LogTrigger converts t into the correlation fields attached to logs.
func (t Trigger) LogTrigger() logging.Trigger {
	return logging.Trigger{Repo: t.FullName(), Issue: t.IssueNumber, Comment: t.CommentID}
}

// Env is the Actions context needed to build a Trigger.
type Env struct {
	EventName   string // GITHUB_EVENT_NAME
	EventPath   string // GITHUB_EVENT_PATH
	Repository  string // GITHUB_REPOSITORY, owner/name
	CommentBody string // COMMENT_BODY, workflow_dispatch override
	PRNumber    string // PR_NUMBER, workflow_dispatch override
}

// LoadTrigger reads the event payload described by env.
func LoadTrigger(env Env) (Trigger, error) {
	if env.EventPath == "" {
		return Trigger{}, errors.New("event payload path not set")
	}
	data, err := os.ReadFile(env.EventPath)
	if err != nil {
		return Trigger{}, fmt.Errorf("reading event payload: %w", err)
	}
	return ParseTrigger(env, data)
}

// ParseTrigger builds a Trigger from a raw event payload.
func ParseTrigger(env Env, payload []byte) (Trigger, error) {
	event, err := gh.ParseWebHook(env.EventName, payload)
	if err != nil {
		return Trigger{}, fmt.Errorf("parsing %s payload: %w", env.EventName, err)
	}

	switch ev := event.(type) {
	case *gh.IssueCommentEvent:
		return TriggerFromCommentEvent(ev), nil
	case *gh.WorkflowDispatchEvent:
		return triggerFromDispatch(env, ev)
	default:
		return Trigger{}, fmt.Errorf("unsupported event %q", env.EventName)
	}
}

// TriggerFromCommentEvent extracts the trigger from an issue_comment event.
func TriggerFromCommentEvent(ev *gh.IssueCommentEvent) Trigger {
	user := ev.GetComment().GetUser()
	return Trigger{
		Owner:       ev.GetRepo().GetOwner().GetLogin(),
		Repo:        ev.GetRepo().GetName(),
		IssueNumber: ev.GetIssue().GetNumber(),
		CommentID:   ev.GetComment().GetID(),
		Body:        ev.GetComment().GetBody(),
		Author:      user.GetLogin(),
		AuthorBot:   user.GetType() == "Bot" || strings.HasSuffix(user.GetLogin(), "[bot]"),
		Action:      ev.GetAction(),
	}
}

func triggerFromDispatch(env Env, ev *gh.WorkflowDispatchEvent) (Trigger, error) {
	inputs := map[string]interface{}{}
	if len(ev.Inputs) > 0 {
		if err := json.Unmarshal(ev.Inputs, &inputs); err != nil {
			return Trigger{}, fmt.Errorf("parsing workflow_dispatch inputs: %w", err)
		}
	}

	body := firstNonEmpty(env.CommentBody, inputString(inputs, "comment_body"))
	prNumber, _ := strconv.Atoi(strings.TrimSpace(firstNonEmpty(env.PRNumber, inputString(inputs, "pr_number"))))
	if prNumber <= 0 {
		return Trigger{}, ErrMissingPRNumber
	}

	owner, repo := ev.GetRepo().GetOwner().GetLogin(), ev.GetRepo().GetName()
	if owner == "" || repo == "" {
		var ok bool
		owner, repo, ok = strings.Cut(env.Repository, "/")
		if !ok {
			return Trigger{}, fmt.Errorf("cannot determine repository from %q", env.Repository)
		}
	}

	return Trigger{
		Owner:       owner,
		Repo:        repo,
		IssueNumber: prNumber,
		Body:        body,
		Author:      ev.GetSender().GetLogin(),
	}, nil
}

func inputString(inputs map[string]interface{}, key string) string {
	switch v := inputs[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
