package http

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	gh "github.com/google/go-github/v57/github"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chatops/internal/command"
	"github.com/fyrsmithlabs/chatops/internal/github"
	"github.com/fyrsmithlabs/chatops/internal/logging"
	"github.com/fyrsmithlabs/chatops/internal/workflows"
)

var validNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func (s *Server) handleWebhook(c echo.Context) error {
	r := c.Request()
	ctx := r.Context()

	clientIP := c.RealIP()
	if !s.limiters.get(clientIP).Allow() {
		s.logger.Warn(ctx, "rate limit exceeded", zap.String("ip", clientIP))
		s.metrics.rejected.WithLabelValues("rate_limited").Inc()
		return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
	}

	r.Body = http.MaxBytesReader(c.Response(), r.Body, s.config.MaxBodyBytes)

	payload, err := gh.ValidatePayload(r, []byte(s.config.WebhookSecret.Value()))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.metrics.rejected.WithLabelValues("too_large").Inc()
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Payload too large")
		}
		s.logger.Warn(ctx, "invalid webhook signature", zap.Error(err))
		s.metrics.rejected.WithLabelValues("bad_signature").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid signature")
	}

	eventType := gh.WebHookType(r)
	event, err := gh.ParseWebHook(eventType, payload)
	if err != nil {
		s.logger.Warn(ctx, "failed to parse webhook", zap.String("event", eventType), zap.Error(err))
		s.metrics.rejected.WithLabelValues("bad_payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}

	delivery := gh.DeliveryID(r)
	if delivery == "" {
		delivery = uuid.NewString()
	}

	switch e := event.(type) {
	case *gh.IssueCommentEvent:
		return s.handleIssueComment(c, e, delivery)
	default:
		s.logger.Debug(ctx, "ignoring event type", zap.String("event", eventType))
		return s.ignore(c, eventType, ReasonEvent)
	}
}

func (s *Server) handleIssueComment(c echo.Context, e *gh.IssueCommentEvent, delivery string) error {
	trigger := github.TriggerFromCommentEvent(e)
	ctx := logging.WithTrigger(c.Request().Context(), logging.Trigger{
		Repo:     trigger.FullName(),
		Issue:    trigger.IssueNumber,
		Comment:  trigger.CommentID,
		Delivery: delivery,
	})

	if trigger.Action != "created" && trigger.Action != "edited" {
		return s.ignore(c, github.EventIssueComment, ReasonAction)
	}
	if trigger.AuthorBot {
		s.logger.Debug(ctx, "ignoring bot comment", zap.String("author", trigger.Author))
		return s.ignore(c, github.EventIssueComment, ReasonBot)
	}
	if err := validateTrigger(trigger); err != nil {
		s.logger.Warn(ctx, "invalid comment event data", zap.Error(err))
		s.metrics.rejected.WithLabelValues("bad_payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
	}
	if _, ok := command.ExtractCommandLine(trigger.Body); !ok {
		return s.ignore(c, github.EventIssueComment, ReasonNoCommand)
	}

	run, err := s.starter.StartComment(ctx, workflows.ChatOpsCommentConfig{
		Trigger:    trigger,
		DeliveryID: delivery,
	})
	if err != nil {
		s.logger.Error(ctx, "error starting comment workflow", zap.Error(err))
		s.metrics.events.WithLabelValues(github.EventIssueComment, "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal error")
	}

	s.logger.Info(ctx, "workflow started",
		zap.String("workflow_id", run.GetID()),
		zap.String("run_id", run.GetRunID()),
	)
	s.metrics.events.WithLabelValues(github.EventIssueComment, StatusStarted).Inc()
	return c.JSON(http.StatusAccepted, WebhookResponse{
		Status:     StatusStarted,
		WorkflowID: run.GetID(),
		RunID:      run.GetRunID(),
	})
}

func (s *Server) ignore(c echo.Context, event, reason string) error {
	s.metrics.events.WithLabelValues(event, StatusIgnored).Inc()
	return c.JSON(http.StatusOK, WebhookResponse{Status: StatusIgnored, Reason: reason})
}

// validateTrigger rejects payloads whose identifiers would not survive
// being embedded in workflow IDs and API paths.
func validateTrigger(t github.Trigger) error {
	if !validNameRegex.MatchString(t.Owner) {
		return fmt.Errorf("invalid repository owner %q", t.Owner)
	}
	if !validNameRegex.MatchString(t.Repo) {
		return fmt.Errorf("invalid repository name %q", t.Repo)
	}
	if t.IssueNumber <= 0 {
		return fmt.Errorf("invalid issue number %d", t.IssueNumber)
	}
	if t.CommentID <= 0 {
		return fmt.Errorf("invalid comment id %d", t.CommentID)
	}
	return nil
}

