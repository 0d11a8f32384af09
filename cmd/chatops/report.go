package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/chatops/internal/config"
	"github.com/fyrsmithlabs/chatops/internal/github"
	"github.com/fyrsmithlabs/chatops/internal/report"
	"github.com/fyrsmithlabs/chatops/internal/secrets"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report the outcome of a chatops command on the pull request",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "success",
			Short: "React with a rocket and post the command report",
			Long: `Post the report written by the command step (report.report_file, default
chatops-report.md) with a link to the Actions run. The rocket reaction is added
first so the requester sees progress even if commenting fails.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runReportSuccess(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "failure",
			Short: "Post the scrubbed command log and react confused",
			Long: `Post the command log (report.log_file, default chatops.log) with secrets
scrubbed and the text truncated to report.max_log_chars, followed by the usage
guide and a link to the Actions run.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.runReportFailure(cmd.Context())
			},
		},
	)
	return cmd
}

func (a *app) runReportSuccess(ctx context.Context) error {
	t, ctx, err := a.loadTrigger(ctx)
	if err != nil {
		return err
	}
	poster, err := a.newPoster(ctx)
	if err != nil {
		return err
	}

	_ = poster.AddReaction(ctx, t, github.ReactionRocket)

	body := report.ReadReport(a.cfg.ResolvePath(a.cfg.Report.ReportFile))
	_, err = poster.PostComment(ctx, t, report.FormatSuccess(body, a.actionLink(t)))
	return err
}

func (a *app) runReportFailure(ctx context.Context) error {
	t, ctx, err := a.loadTrigger(ctx)
	if err != nil {
		return err
	}
	poster, err := a.newPoster(ctx)
	if err != nil {
		return err
	}

	scrubber, err := a.newScrubber()
	if err != nil {
		return err
	}
	log, res := report.PrepareLog(report.ReadLog(a.cfg.ResolvePath(a.cfg.Report.LogFile)), scrubber, a.cfg.Report.MaxLogChars)
	if res.HasFindings() {
		a.logger.Warn(ctx, "scrubbed secrets from command log", zap.String("findings", res.Summary()))
	}

	guide, err := report.LoadGuide(a.cfg.ResolvePath(a.cfg.UsageGuide.Path), a.loadRegistry(ctx))
	if err != nil {
		a.logger.Warn(ctx, "usage guide unreadable, using generated guide", zap.Error(err))
	}

	if _, err := poster.PostComment(ctx, t, report.FormatFailure(log, guide, a.actionLink(t))); err != nil {
		return err
	}
	_ = poster.AddReaction(ctx, t, github.ReactionConfused)
	return nil
}

func (a *app) actionLink(t github.Trigger) string {
	return report.ActionLogLink(a.cfg.Report.ServerURL, t.Owner, t.Repo, a.cfg.Report.RunID)
}

// newScrubber builds the log scrubber. The configured credentials are
// masked verbatim in addition to the pattern rules.
func (a *app) newScrubber() (secrets.Scrubber, error) {
	cfg := secrets.DefaultConfig()
	if err := a.cfg.Unmarshal("scrub", cfg); err != nil {
		return nil, err
	}
	cfg.Enabled = a.cfg.Scrub.Enabled
	cfg.Masks = []config.Secret{a.cfg.GitHub.Token, a.cfg.GitHub.WebhookSecret}
	return secrets.New(cfg)
}
