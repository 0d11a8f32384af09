// Package main provides the Temporal worker for chatops comment workflows.
//
// The worker validates comments against the command registry and answers
// them on GitHub. The GitHub token stays in the worker process and never
// enters workflow history.
//
// Usage:
//
//	GITHUB_TOKEN=ghp_xxx \
//	CHATOPS_TEMPORAL_HOST=localhost:7233 \
//	./chatops-worker
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chatops/internal/config"
	"github.com/fyrsmithlabs/chatops/internal/github"
	"github.com/fyrsmithlabs/chatops/internal/logging"
	"github.com/fyrsmithlabs/chatops/internal/registry"
	"github.com/fyrsmithlabs/chatops/internal/telemetry"
	"github.com/fyrsmithlabs/chatops/internal/workflows"
)

// version information, set at build time
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (default "+config.DefaultPath+")")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	telCfg := telemetry.NewDefaultConfig()
	telCfg.ServiceName = "chatops-worker"
	telCfg.ServiceVersion = version
	if err := cfg.Unmarshal("telemetry", telCfg); err != nil {
		return err
	}
	tel, err := telemetry.New(ctx, telCfg)
	if err != nil {
		return err
	}
	defer func() { _ = tel.Shutdown(context.Background()) }()

	logCfg := logging.NewServerConfig()
	if err := cfg.Unmarshal("logging", logCfg); err != nil {
		return err
	}
	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info(ctx, "chatops worker starting",
		zap.String("temporal_host", cfg.Temporal.Host),
		zap.String("task_queue", cfg.Temporal.TaskQueue),
		zap.String("version", version),
	)

	if !cfg.GitHub.Token.IsSet() {
		return errors.New("github.token not set")
	}
	gh, err := github.NewClient(ctx, cfg.GitHub.Token,
		github.WithBaseURL(cfg.GitHub.BaseURL),
		github.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "github client ready",
		logging.Secret("token", cfg.GitHub.Token),
		zap.String("base_url", cfg.GitHub.BaseURL),
	)

	store, err := registry.NewStore(cfg.ResolvePath(cfg.Registry.Path))
	if err != nil {
		return err
	}
	if cfg.Registry.Watch {
		go func() {
			if err := store.Watch(ctx, logger); err != nil {
				logger.Error(ctx, "registry watcher stopped", zap.Error(err))
			}
		}()
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.Host,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return fmt.Errorf("unable to create Temporal client: %w", err)
	}
	defer c.Close()

	logger.Info(ctx, "temporal client connected", zap.String("host", cfg.Temporal.Host))

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.ChatOpsCommentWorkflow)
	w.RegisterActivity(&workflows.Activities{
		Commands:  store,
		Poster:    gh,
		GuidePath: cfg.ResolvePath(cfg.UsageGuide.Path),
		Logger:    logger,
		Validator: telemetry.NewValidator(tel),
	})

	if err := w.Start(); err != nil {
		return fmt.Errorf("worker error: %w", err)
	}
	logger.Info(ctx, "worker started", zap.String("task_queue", cfg.Temporal.TaskQueue))

	<-ctx.Done()
	logger.Info(ctx, "shutdown signal received")
	w.Stop()

	logger.Info(ctx, "worker stopped gracefully")
	return nil
}
