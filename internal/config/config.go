// Package config provides configuration loading for chatops.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then CHATOPS_* environment variables. Variables set by the GitHub Actions
// runner fill whatever is still empty afterwards.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/v2"
)

// Config holds the complete chatops configuration.
type Config struct {
	Registry   RegistryConfig   `koanf:"registry"`
	UsageGuide UsageGuideConfig `koanf:"usage_guide"`
	GitHub     GitHubConfig     `koanf:"github"`
	Report     ReportConfig     `koanf:"report"`
	Server     ServerConfig     `koanf:"server"`
	Temporal   TemporalConfig   `koanf:"temporal"`
	Scrub      ScrubConfig      `koanf:"scrub"`

	// k keeps the merged tree so packages that own their config types
	// (logging, telemetry) can decode their own section.
	k *koanf.Koanf
}

// RegistryConfig locates the command registry file.
type RegistryConfig struct {
	Path  string `koanf:"path"`
	Watch bool   `koanf:"watch"`
}

// UsageGuideConfig locates the markdown usage guide appended to rejections.
type UsageGuideConfig struct {
	Path string `koanf:"path"`
}

// GitHubConfig holds API credentials and the Actions event context.
type GitHubConfig struct {
	Token         Secret `koanf:"token"`
	WebhookSecret Secret `koanf:"webhook_secret"`
	BaseURL       string `koanf:"base_url"` // GitHub Enterprise API root, empty for github.com

	EventPath   string `koanf:"event_path"`
	EventName   string `koanf:"event_name"`
	Repository  string `koanf:"repository"` // owner/name
	Workspace   string `koanf:"workspace"`
	CommentBody string `koanf:"comment_body"` // workflow_dispatch input
	PRNumber    string `koanf:"pr_number"`    // workflow_dispatch input
}

// ReportConfig controls success and failure comments.
type ReportConfig struct {
	LogFile     string `koanf:"log_file"`
	ReportFile  string `koanf:"report_file"`
	MaxLogChars int    `koanf:"max_log_chars"`
	ServerURL   string `koanf:"server_url"`
	RunID       string `koanf:"run_id"`
}

// ServerConfig holds webhook server configuration.
type ServerConfig struct {
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	RateLimit       float64  `koanf:"rate_limit"` // requests per second per client IP
	RateBurst       int      `koanf:"rate_burst"`
	MaxBodyBytes    int64    `koanf:"max_body_bytes"`
}

// TemporalConfig holds the Temporal frontend address and task queue.
type TemporalConfig struct {
	Host      string `koanf:"host"`
	Namespace string `koanf:"namespace"`
	TaskQueue string `koanf:"task_queue"`
}

// ScrubConfig controls secret scrubbing of logs quoted in failure comments.
type ScrubConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Registry: RegistryConfig{
			Path: ".github/chatops/commands.yaml",
		},
		UsageGuide: UsageGuideConfig{
			Path: "scripts/templates/chatops-usage-guide.md",
		},
		Report: ReportConfig{
			LogFile:     "chatops.log",
			ReportFile:  "chatops-report.md",
			MaxLogChars: 2000,
			ServerURL:   "https://github.com",
		},
		Server: ServerConfig{
			Port:            9000,
			ShutdownTimeout: Duration(10 * time.Second),
			RateLimit:       1,
			RateBurst:       10,
			MaxBodyBytes:    1 << 20,
		},
		Temporal: TemporalConfig{
			Host:      "localhost:7233",
			Namespace: "default",
			TaskQueue: "chatops",
		},
		Scrub: ScrubConfig{
			Enabled: true,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Registry.Path == "" {
		return errors.New("registry.path is required")
	}
	if c.Report.MaxLogChars <= 0 {
		return fmt.Errorf("report.max_log_chars must be positive, got %d", c.Report.MaxLogChars)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return errors.New("server.rate_limit and server.rate_burst must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}
	if c.Temporal.TaskQueue == "" {
		return errors.New("temporal.task_queue is required")
	}
	return nil
}

// ResolvePath joins a relative path onto the Actions workspace when one is
// known. Absolute paths are returned unchanged.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.GitHub.Workspace == "" {
		return p
	}
	return filepath.Join(c.GitHub.Workspace, p)
}

// Unmarshal decodes the section at key into out. Fields absent from the
// loaded sources keep the values already in out, so callers pass a struct
// pre-filled with their own defaults.
func (c *Config) Unmarshal(key string, out interface{}) error {
	if c.k == nil || !c.k.Exists(key) {
		return nil
	}
	if err := c.k.Unmarshal(key, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", key, err)
	}
	return nil
}
