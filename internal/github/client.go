// Package github posts chatops results back to GitHub and extracts the
// triggering comment from Actions event payloads.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/fyrsmithlabs/chatops/internal/config"
	"github.com/fyrsmithlabs/chatops/internal/logging"
)

const publicAPIURL = "https://api.github.com/"

// Poster is what the validator glue needs from GitHub.
type Poster interface {
	PostComment(ctx context.Context, t Trigger, body string) (string, error)
	AddReaction(ctx context.Context, t Trigger, content string) error
}

// Client wraps the go-github client with retries and logging.
type Client struct {
	gh     *gh.Client
	retry  *RetryConfig
	logger *logging.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at a GitHub Enterprise or test API root.
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if raw == "" || strings.TrimRight(raw, "/")+"/" == publicAPIURL {
			return nil
		}
		u, err := url.Parse(strings.TrimRight(raw, "/") + "/")
		if err != nil {
			return fmt.Errorf("invalid GitHub API URL %q: %w", raw, err)
		}
		c.gh.BaseURL = u
		return nil
	}
}

// WithRetryConfig overrides the retry policy for API calls.
func WithRetryConfig(rc *RetryConfig) Option {
	return func(c *Client) error {
		c.retry = rc
		return nil
	}
}

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// NewClient creates an authenticated GitHub client.
func NewClient(ctx context.Context, token config.Secret, opts ...Option) (*Client, error) {
	if !token.IsSet() {
		return nil, fmt.Errorf("GitHub token not set")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.Value()})
	return newClient(oauth2.NewClient(ctx, ts), opts...)
}

func newClient(hc *http.Client, opts ...Option) (*Client, error) {
	c := &Client{
		gh:     gh.NewClient(hc),
		retry:  DefaultRetryConfig(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// PostComment creates a comment on the trigger's pull request and returns
// its URL.
func (c *Client) PostComment(ctx context.Context, t Trigger, body string) (string, error) {
	if t.IssueNumber == 0 {
		return "", fmt.Errorf("cannot comment on %s: no issue number", t.FullName())
	}

	var created *gh.IssueComment
	_, err := c.do(ctx, func() (*gh.Response, error) {
		var (
			resp *gh.Response
			err  error
		)
		created, resp, err = c.gh.Issues.CreateComment(ctx, t.Owner, t.Repo, t.IssueNumber, &gh.IssueComment{
			Body: &body,
		})
		return resp, err
	})
	if err != nil {
		return "", fmt.Errorf("failed to create comment: %w", err)
	}

	c.logger.Info(ctx, "posted comment", zap.String("url", created.GetHTMLURL()))
	return created.GetHTMLURL(), nil
}

func (c *Client) do(ctx context.Context, op func() (*gh.Response, error)) (*gh.Response, error) {
	return retryOperation(ctx, c.retry, c.logger, op)
}

var _ Poster = (*Client)(nil)
