package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"
	"go.uber.org/zap"
)

// Reaction contents accepted by the GitHub API.
const (
	ReactionPlusOne  = "+1"
	ReactionMinusOne = "-1"
	ReactionLaugh    = "laugh"
	ReactionConfused = "confused"
	ReactionHeart    = "heart"
	ReactionHooray   = "hooray"
	ReactionRocket   = "rocket"
	ReactionEyes     = "eyes"
)

var validReactions = map[string]bool{
	ReactionPlusOne:  true,
	ReactionMinusOne: true,
	ReactionLaugh:    true,
	ReactionConfused: true,
	ReactionHeart:    true,
	ReactionHooray:   true,
	ReactionRocket:   true,
	ReactionEyes:     true,
}

// ValidReaction reports whether content is a reaction GitHub accepts.
func ValidReaction(content string) bool {
	return validReactions[content]
}

// AddReaction reacts to the triggering comment. An empty content or a
// trigger without a comment (workflow_dispatch) is a logged no-op. API
// failures are logged and returned; reactions are never worth failing a
// run over, so callers usually ignore the error.
func (c *Client) AddReaction(ctx context.Context, t Trigger, content string) error {
	if content == "" {
		c.logger.Info(ctx, "no reaction content provided, skipping")
		return nil
	}
	if !ValidReaction(content) {
		return fmt.Errorf("invalid reaction %q", content)
	}
	if !t.CanReact() {
		c.logger.Info(ctx, "no comment to react to, skipping reaction", zap.String("content", content))
		return nil
	}

	_, err := c.do(ctx, func() (*gh.Response, error) {
		_, resp, err := c.gh.Reactions.CreateIssueCommentReaction(ctx, t.Owner, t.Repo, t.CommentID, content)
		return resp, err
	})
	if err != nil {
		c.logger.Warn(ctx, "failed to add reaction", zap.String("content", content), zap.Error(err))
		return fmt.Errorf("failed to add %s reaction: %w", content, err)
	}

	c.logger.Debug(ctx, "added reaction", zap.String("content", content))
	return nil
}
