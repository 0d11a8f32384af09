// Package main implements the chatops CLI run from GitHub Actions steps.
//
// A typical workflow validates the triggering comment, runs the command and
// reports the outcome:
//
//	chatops validate            # exit 1 and comment on a syntax error
//	./run-command.sh > chatops.log 2>&1
//	chatops report success      # or: chatops report failure
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chatops/internal/command"
	"github.com/fyrsmithlabs/chatops/internal/config"
	"github.com/fyrsmithlabs/chatops/internal/github"
	"github.com/fyrsmithlabs/chatops/internal/logging"
	"github.com/fyrsmithlabs/chatops/internal/registry"
	"github.com/fyrsmithlabs/chatops/internal/telemetry"
)

// version information, set at build time
var version = "dev"

// errRejected signals a validation rejection that was already reported.
var errRejected = errors.New("command rejected")

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	configPath   string
	registryPath string

	cfg       *config.Config
	logger    *logging.Logger
	tel       *telemetry.Telemetry
	validator *telemetry.Validator

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "chatops",
		Short: "Validate and answer ChatOps slash commands on pull requests",
		Long: `chatops validates slash commands posted as pull request comments against a
declarative command registry, and posts the outcome back to the pull request.

Configuration is read from .github/chatops/config.yaml when present, then from
CHATOPS_* environment variables, then from the GitHub Actions runner environment.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath+")")
	root.PersistentFlags().StringVar(&a.registryPath, "registry", "", "command registry file (overrides registry.path)")

	root.AddCommand(
		newValidateCmd(a),
		newReportCmd(a),
		newReactCmd(a),
		newCommandsCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.registryPath != "" {
		cfg.Registry.Path = a.registryPath
	}
	a.cfg = cfg

	telCfg := telemetry.NewDefaultConfig()
	telCfg.ServiceVersion = version
	if err := cfg.Unmarshal("telemetry", telCfg); err != nil {
		return err
	}
	if a.tel, err = telemetry.New(ctx, telCfg); err != nil {
		return err
	}
	a.validator = telemetry.NewValidator(a.tel)

	logCfg := logging.NewDefaultConfig()
	if err := cfg.Unmarshal("logging", logCfg); err != nil {
		return err
	}
	if a.logger, err = logging.NewLogger(logCfg, a.tel.LoggerProvider()); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.tel != nil {
		return a.tel.Shutdown(ctx)
	}
	return nil
}

// loadRegistry loads the configured registry. A load failure is logged and
// yields nil, which rejects every command.
func (a *app) loadRegistry(ctx context.Context) *command.Registry {
	path := a.cfg.ResolvePath(a.cfg.Registry.Path)
	reg, err := registry.Load(path)
	if err != nil {
		a.logger.Error(ctx, "failed to load command registry", zap.String("path", path), zap.Error(err))
		return nil
	}
	a.logger.Debug(ctx, "loaded command registry", zap.String("path", path), zap.Int("commands", reg.Len()))
	return reg
}

func (a *app) loadTrigger(ctx context.Context) (github.Trigger, context.Context, error) {
	t, err := github.LoadTrigger(github.Env{
		EventName:   a.cfg.GitHub.EventName,
		EventPath:   a.cfg.GitHub.EventPath,
		Repository:  a.cfg.GitHub.Repository,
		CommentBody: a.cfg.GitHub.CommentBody,
		PRNumber:    a.cfg.GitHub.PRNumber,
	})
	if err != nil {
		return github.Trigger{}, ctx, err
	}
	return t, logging.WithTrigger(ctx, t.LogTrigger()), nil
}

func (a *app) newPoster(ctx context.Context) (github.Poster, error) {
	return github.NewClient(ctx, a.cfg.GitHub.Token,
		github.WithBaseURL(a.cfg.GitHub.BaseURL),
		github.WithLogger(a.logger),
	)
}
