package secrets

import (
	"fmt"
	"regexp"

	"github.com/fyrsmithlabs/chatops/internal/config"
)

// Severity levels attached to rules.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// maskRuleID is reported for findings produced by registered masks.
const maskRuleID = "masked-value"

// Config configures the scrubber.
type Config struct {
	Enabled bool `koanf:"enabled"`

	Rules []Rule `koanf:"rules"`

	// RedactionString replaces each detected secret (default: "[REDACTED]")
	RedactionString string `koanf:"redaction_string"`

	// Masks are literal values removed wherever they appear, the way the
	// Actions runner masks registered secrets. Values shorter than
	// minMaskLength are ignored.
	Masks []config.Secret `koanf:"-"`

	compiledRules []*compiledRule
	masks         []string
}

// minMaskLength keeps short values like "1" from blanking out the log.
const minMaskLength = 4

// Rule defines a secret detection rule.
type Rule struct {
	ID          string `koanf:"id"`
	Description string `koanf:"description"`
	Pattern     string `koanf:"pattern"`
	Severity    string `koanf:"severity"`
}

type compiledRule struct {
	Rule
	pattern *regexp.Regexp
}

// DefaultConfig returns a configuration with the default rules.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		RedactionString: "[REDACTED]",
		Rules:           DefaultRules(),
	}
}

// Validate validates and compiles the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.RedactionString == "" {
		c.RedactionString = "[REDACTED]"
	}

	c.compiledRules = make([]*compiledRule, 0, len(c.Rules))
	for i, rule := range c.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rule %d: ID is required", i)
		}
		if rule.Pattern == "" {
			return fmt.Errorf("rule %s: pattern is required", rule.ID)
		}
		pattern, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("rule %s: invalid pattern: %w", rule.ID, err)
		}
		c.compiledRules = append(c.compiledRules, &compiledRule{Rule: rule, pattern: pattern})
	}

	c.masks = c.masks[:0]
	for _, m := range c.Masks {
		if len(m.Value()) >= minMaskLength {
			c.masks = append(c.masks, m.Value())
		}
	}

	return nil
}
