package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CHATOPS_"

	// DefaultPath is read when Load is called without a path. A missing
	// file at the default path is not an error.
	DefaultPath = ".github/chatops/config.yaml"
)

// sections lists top-level keys, longest first, so env names containing
// underscores map to the right section.
var sections = []string{
	"usage_guide", "telemetry", "registry", "temporal", "logging",
	"github", "report", "server", "scrub",
}

// Load loads configuration from defaults, the YAML file at path, then
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. CHATOPS_* environment variables (CHATOPS_SERVER_PORT -> server.port)
//  2. YAML config file
//  3. Built-in defaults
//
// GitHub Actions variables (GITHUB_TOKEN, GITHUB_EVENT_PATH, ...) fill any
// field that is still empty once the layers above are merged.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	content, err := readConfigFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	applyActionsEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// envKey maps CHATOPS_USAGE_GUIDE_PATH to usage_guide.path. Underscores
// after the section name are kept in the field name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(lower, section+"_") {
			return section + "." + strings.TrimPrefix(lower, section+"_")
		}
	}
	return lower
}

// readConfigFile opens path once and validates it through the open
// descriptor to avoid a TOCTOU race.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateConfigFileProperties(info); err != nil {
		return nil, fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// validateConfigFileProperties checks file permissions and size.
func validateConfigFileProperties(info os.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", info.Name())
	}

	// The file lives in the repository, so 0644 is normal. World-writable is not.
	if runtime.GOOS != "windows" {
		if perm := info.Mode().Perm(); perm&0o002 != 0 {
			return fmt.Errorf("insecure config file permissions: %v (world-writable)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	return nil
}

// applyActionsEnv fills empty fields from the GitHub Actions runner
// environment.
func applyActionsEnv(cfg *Config) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}

	if !cfg.GitHub.Token.IsSet() {
		cfg.GitHub.Token = Secret(os.Getenv("GITHUB_TOKEN"))
	}
	fill(&cfg.GitHub.BaseURL, "GITHUB_API_URL")
	fill(&cfg.GitHub.EventPath, "GITHUB_EVENT_PATH")
	fill(&cfg.GitHub.EventName, "GITHUB_EVENT_NAME")
	fill(&cfg.GitHub.Repository, "GITHUB_REPOSITORY")
	fill(&cfg.GitHub.Workspace, "GITHUB_WORKSPACE")
	fill(&cfg.GitHub.CommentBody, "COMMENT_BODY")
	fill(&cfg.GitHub.PRNumber, "PR_NUMBER")
	fill(&cfg.Report.RunID, "GITHUB_RUN_ID")

	// ServerURL has a default, so the runner value wins when present.
	if v := os.Getenv("GITHUB_SERVER_URL"); v != "" && cfg.k != nil && !cfg.k.Exists("report.server_url") {
		cfg.Report.ServerURL = v
	}
	cfg.Report.ServerURL = strings.TrimRight(cfg.Report.ServerURL, "/")
}
