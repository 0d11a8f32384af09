// Package main provides the chatops webhook server.
//
// The server receives GitHub issue_comment webhooks and starts a
// ChatOpsCommentWorkflow on Temporal for every human comment containing a
// slash command. Run it next to cmd/chatops-worker.
//
// Usage:
//
//	CHATOPS_GITHUB_WEBHOOK_SECRET=your_secret \
//	CHATOPS_TEMPORAL_HOST=localhost:7233 \
//	CHATOPS_SERVER_PORT=9000 \
//	./chatops-webhook
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chatops/internal/config"
	chatopshttp "github.com/fyrsmithlabs/chatops/internal/http"
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
	telCfg.ServiceName = "chatops-webhook"
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

	logger.Info(ctx, "chatops webhook server starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("temporal_host", cfg.Temporal.Host),
		zap.String("version", version),
	)

	if !cfg.GitHub.WebhookSecret.IsSet() {
		return errors.New("github.webhook_secret not set")
	}

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

	server, err := chatopshttp.NewServer(&chatopshttp.Config{
		Port:          cfg.Server.Port,
		WebhookSecret: cfg.GitHub.WebhookSecret,
		RateLimit:     cfg.Server.RateLimit,
		RateBurst:     cfg.Server.RateBurst,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
	}, workflows.NewStarter(c, cfg.Temporal.TaskQueue), store, logger)
	if err != nil {
		return err
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server shutdown error", zap.Error(err))
		return err
	}

	logger.Info(ctx, "server stopped gracefully")
	return nil
}
