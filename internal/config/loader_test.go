package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearActionsEnv blanks runner variables so tests behave the same inside
// and outside GitHub Actions.
func clearActionsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_API_URL", "GITHUB_EVENT_PATH", "GITHUB_EVENT_NAME",
		"GITHUB_REPOSITORY", "GITHUB_WORKSPACE", "GITHUB_SERVER_URL", "GITHUB_RUN_ID",
		"COMMENT_BODY", "PR_NUMBER",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_DefaultsWhenDefaultFileMissing(t *testing.T) {
	clearActionsEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ".github/chatops/commands.yaml", cfg.Registry.Path)
	assert.Equal(t, "scripts/templates/chatops-usage-guide.md", cfg.UsageGuide.Path)
	assert.Equal(t, "chatops.log", cfg.Report.LogFile)
	assert.Equal(t, "chatops-report.md", cfg.Report.ReportFile)
	assert.Equal(t, 2000, cfg.Report.MaxLogChars)
	assert.Equal(t, "https://github.com", cfg.Report.ServerURL)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "chatops", cfg.Temporal.TaskQueue)
	assert.True(t, cfg.Scrub.Enabled)
	assert.False(t, cfg.GitHub.Token.IsSet())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearActionsEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_YAML(t *testing.T) {
	clearActionsEnv(t)
	path := writeConfig(t, `
registry:
  path: ops/commands.toml
  watch: true
report:
  max_log_chars: 500
server:
  port: 8088
  shutdown_timeout: 3s
github:
  token: ghp_fromfile
temporal:
  task_queue: ops
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ops/commands.toml", cfg.Registry.Path)
	assert.True(t, cfg.Registry.Watch)
	assert.Equal(t, 500, cfg.Report.MaxLogChars)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "ghp_fromfile", cfg.GitHub.Token.Value())
	assert.Equal(t, "ops", cfg.Temporal.TaskQueue)
	// untouched defaults survive
	assert.Equal(t, "chatops.log", cfg.Report.LogFile)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearActionsEnv(t)
	path := writeConfig(t, "server:\n  port: 8088\n")

	t.Setenv("CHATOPS_SERVER_PORT", "7000")
	t.Setenv("CHATOPS_USAGE_GUIDE_PATH", "docs/guide.md")
	t.Setenv("CHATOPS_REPORT_LOG_FILE", "out/run.log")
	t.Setenv("CHATOPS_SCRUB_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "docs/guide.md", cfg.UsageGuide.Path)
	assert.Equal(t, "out/run.log", cfg.Report.LogFile)
	assert.False(t, cfg.Scrub.Enabled)
}

func TestLoad_ActionsFallbacks(t *testing.T) {
	clearActionsEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghs_runner")
	t.Setenv("GITHUB_EVENT_NAME", "issue_comment")
	t.Setenv("GITHUB_EVENT_PATH", "/tmp/event.json")
	t.Setenv("GITHUB_REPOSITORY", "acme/app")
	t.Setenv("GITHUB_RUN_ID", "12345")
	t.Setenv("GITHUB_SERVER_URL", "https://ghe.example.com/")
	t.Setenv("PR_NUMBER", "7")

	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, "ghs_runner", cfg.GitHub.Token.Value())
	assert.Equal(t, "issue_comment", cfg.GitHub.EventName)
	assert.Equal(t, "/tmp/event.json", cfg.GitHub.EventPath)
	assert.Equal(t, "acme/app", cfg.GitHub.Repository)
	assert.Equal(t, "12345", cfg.Report.RunID)
	assert.Equal(t, "https://ghe.example.com", cfg.Report.ServerURL)
	assert.Equal(t, "7", cfg.GitHub.PRNumber)
}

func TestLoad_ExplicitTokenBeatsRunner(t *testing.T) {
	clearActionsEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghs_runner")
	t.Setenv("CHATOPS_GITHUB_TOKEN", "ghp_explicit")

	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "ghp_explicit", cfg.GitHub.Token.Value())
}

func TestLoad_Invalid(t *testing.T) {
	clearActionsEnv(t)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "server: [", "failed to load config file"},
		{"bad port", "server:\n  port: 70000\n", "invalid server port"},
		{"bad duration", "server:\n  shutdown_timeout: soon\n", "failed to unmarshal"},
		{"zero log chars", "report:\n  max_log_chars: 0\n", "max_log_chars"},
		{"empty registry", "registry:\n  path: \"\"\n", "registry.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_RejectsLargeFile(t *testing.T) {
	clearActionsEnv(t)
	path := writeConfig(t, "# "+strings.Repeat("x", maxConfigFileSize)+"\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "too large")
}

func TestLoad_RejectsWorldWritable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission model differs on windows")
	}
	clearActionsEnv(t)
	path := writeConfig(t, "{}\n")
	require.NoError(t, os.Chmod(path, 0666))

	_, err := Load(path)
	assert.ErrorContains(t, err, "world-writable")
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"CHATOPS_SERVER_PORT":             "server.port",
		"CHATOPS_SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
		"CHATOPS_USAGE_GUIDE_PATH":        "usage_guide.path",
		"CHATOPS_GITHUB_WEBHOOK_SECRET":   "github.webhook_secret",
		"CHATOPS_LOGGING_LEVEL":           "logging.level",
		"CHATOPS_UNKNOWN":                 "unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestConfig_Unmarshal(t *testing.T) {
	clearActionsEnv(t)
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	type section struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	}
	out := section{Level: "info", Format: "console"}
	require.NoError(t, cfg.Unmarshal("logging", &out))
	assert.Equal(t, "debug", out.Level)
	assert.Equal(t, "console", out.Format, "unset keys keep caller defaults")

	missing := section{Level: "warn"}
	require.NoError(t, cfg.Unmarshal("telemetry", &missing))
	assert.Equal(t, "warn", missing.Level)
}

func TestConfig_ResolvePath(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "a/b", cfg.ResolvePath("a/b"))

	cfg.GitHub.Workspace = "/work"
	assert.Equal(t, "/work/a/b", cfg.ResolvePath("a/b"))
	assert.Equal(t, "/abs/x", cfg.ResolvePath("/abs/x"))
	assert.Equal(t, "", cfg.ResolvePath(""))
}
