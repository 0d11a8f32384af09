// Package http serves the chatops webhook.
//
// POST /webhook verifies the GitHub signature, filters issue_comment
// deliveries down to human comments containing a slash command and starts a
// ChatOpsCommentWorkflow for each. GET /health reports whether a command
// registry is loaded; GET /metrics exposes the Prometheus webhook counters.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chatops/internal/config"
	"github.com/fyrsmithlabs/chatops/internal/logging"
	"github.com/fyrsmithlabs/chatops/internal/workflows"
)

// CommentStarter starts the workflow that answers a comment.
type CommentStarter interface {
	StartComment(ctx context.Context, cfg workflows.ChatOpsCommentConfig) (client.WorkflowRun, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Host          string
	Port          int
	WebhookSecret config.Secret
	RateLimit     float64 // requests per second per client IP
	RateBurst     int
	MaxBodyBytes  int64
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.RateLimit == 0 {
		c.RateLimit = 1
	}
	if c.RateBurst == 0 {
		c.RateBurst = 10
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 1 << 20
	}
}

// Server provides the chatops webhook endpoints.
type Server struct {
	echo     *echo.Echo
	config   *Config
	starter  CommentStarter
	commands workflows.RegistrySource
	logger   *logging.Logger
	limiters *limiterSet
	metrics  *webhookMetrics
	registry *prometheus.Registry
}

// NewServer creates a new webhook server.
func NewServer(cfg *Config, starter CommentStarter, commands workflows.RegistrySource, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if !cfg.WebhookSecret.IsSet() {
		return nil, errors.New("webhook secret not set")
	}
	if starter == nil {
		return nil, errors.New("workflow starter cannot be nil")
	}
	if commands == nil {
		return nil, errors.New("command registry cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	cfg.applyDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	reg := prometheus.NewRegistry()
	s := &Server{
		echo:     e,
		config:   cfg,
		starter:  starter,
		commands: commands,
		logger:   logger,
		limiters: newLimiterSet(cfg.RateLimit, cfg.RateBurst),
		metrics:  newWebhookMetrics(reg),
		registry: reg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Debug(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	s.echo.POST("/webhook", s.handleWebhook)
}

// ServeHTTP lets the server be mounted or exercised directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c echo.Context) error {
	reg := s.commands.Registry()
	if reg == nil {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Commands: reg.Len()})
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.echo.Server.ReadTimeout = 10 * time.Second
	s.echo.Server.WriteTimeout = 10 * time.Second
	s.echo.Server.IdleTimeout = 120 * time.Second

	s.logger.Info(context.Background(), "starting webhook server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down webhook server")
	return s.echo.Shutdown(ctx)
}
