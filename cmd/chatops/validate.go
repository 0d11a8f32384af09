package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chatops/internal/command"
	"github.com/fyrsmithlabs/chatops/internal/github"
	"github.com/fyrsmithlabs/chatops/internal/report"
	"github.com/fyrsmithlabs/chatops/internal/telemetry"
)

type validateOptions struct {
	dryRun  bool
	body    string
	hasBody bool
	stdin   io.Reader
}

// acceptedOutput is printed on stdout for an accepted command.
type acceptedOutput struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

func newValidateCmd(a *app) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the slash command in the triggering comment",
		Long: `Validate the first slash command in the triggering comment against the
command registry.

An accepted command is printed as JSON on stdout and, when $GITHUB_OUTPUT is
set, exported as the "command" and "args" step outputs. A rejected command is
answered with a syntax error comment and a confused reaction, and the command
exits with status 1. A comment without a slash command exits 0.

Examples:
  # In a GitHub Actions step
  chatops validate

  # Check a comment locally without touching GitHub
  chatops validate --body '/set-bin "my app.exe"'

  # Read the comment from stdin
  echo '/clean bin' | chatops validate --body -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.hasBody = cmd.Flags().Changed("body")
			opts.stdin = cmd.InOrStdin()
			return a.runValidate(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report rejections without commenting or reacting")
	cmd.Flags().StringVar(&opts.body, "body", "", "validate this text instead of the event payload (implies --dry-run)")
	return cmd
}

func (a *app) runValidate(ctx context.Context, opts *validateOptions) error {
	var (
		trigger github.Trigger
		err     error
	)
	if opts.hasBody {
		if trigger.Body, err = readBody(opts); err != nil {
			return err
		}
		opts.dryRun = true
	} else if trigger, ctx, err = a.loadTrigger(ctx); err != nil {
		return err
	}

	reg := a.loadRegistry(ctx)
	res, found := a.validator.Validate(ctx, telemetry.SourceCLI, trigger.Body, reg)
	if !found {
		a.logger.Info(ctx, "no command found")
		return nil
	}

	if res.Accepted() {
		a.logger.Info(ctx, "command accepted", zap.String("command", res.Command), zap.Int("args", len(res.Args)))
		return a.writeAccepted(res)
	}

	a.logger.Info(ctx, "command rejected", zap.String("kind", string(res.Kind)), zap.String("message", res.Message))
	fmt.Fprintln(a.stderr, res.Message)

	if !opts.dryRun {
		if err := a.postRejection(ctx, trigger, res, reg); err != nil {
			return err
		}
	}
	return errRejected
}

func (a *app) writeAccepted(res command.Result) error {
	args := res.Args
	if args == nil {
		args = []string{}
	}
	out := acceptedOutput{Command: res.Command, Args: args}

	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(a.stdout, string(data)); err != nil {
		return err
	}

	if path := os.Getenv("GITHUB_OUTPUT"); path != "" {
		argsJSON, err := json.Marshal(args)
		if err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening $GITHUB_OUTPUT: %w", err)
		}
		defer f.Close()
		if _, err := fmt.Fprintf(f, "command=%s\nargs=%s\n", res.Command, argsJSON); err != nil {
			return fmt.Errorf("writing $GITHUB_OUTPUT: %w", err)
		}
	}
	return nil
}

// postRejection comments with the syntax error, then reacts confused.
func (a *app) postRejection(ctx context.Context, t github.Trigger, res command.Result, reg *command.Registry) error {
	poster, err := a.newPoster(ctx)
	if err != nil {
		return err
	}

	guide, err := report.LoadGuide(a.cfg.ResolvePath(a.cfg.UsageGuide.Path), reg)
	if err != nil {
		a.logger.Warn(ctx, "usage guide unreadable, using generated guide", zap.Error(err))
	}

	if _, err := poster.PostComment(ctx, t, report.FormatRejection(res, guide)); err != nil {
		return err
	}
	_ = poster.AddReaction(ctx, t, github.ReactionConfused)
	return nil
}

func readBody(opts *validateOptions) (string, error) {
	if opts.body != "-" {
		return opts.body, nil
	}
	data, err := io.ReadAll(opts.stdin)
	if err != nil {
		return "", fmt.Errorf("reading comment from stdin: %w", err)
	}
	return string(data), nil
}
