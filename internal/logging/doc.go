// Package logging provides structured logging for chatops.
//
// Logger wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Multiple outputs: stdout, stderr, a log file, OpenTelemetry
//   - Automatic context fields (trace_id, repo, issue, comment, delivery)
//   - Secret redaction at the encoder
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = logger.Sync() }()
//
//	ctx = logging.WithTrigger(ctx, logging.Trigger{Repo: "acme/app", Issue: 12, Comment: 345})
//	logger.Info(ctx, "command accepted", zap.String("command", "/set-bin"))
//
// # Log file
//
// When Output.File is set, every entry is also appended to that file in
// console format. GitHub Actions runs set it to the file that the failure
// report later quotes back to the comment author, so the file must never
// contain secrets: redaction applies to it as well.
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
package logging
