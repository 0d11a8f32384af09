package secrets

import (
	"sort"
	"strings"
)

// Scrubber detects and redacts secrets from content.
type Scrubber interface {
	// Scrub redacts secrets from the content.
	Scrub(content string) *Result

	// IsEnabled returns whether scrubbing is enabled.
	IsEnabled() bool
}

// scrubber is the default implementation using regexp patterns and masks.
type scrubber struct {
	config *Config
}

// redaction tracks a byte range to redact.
type redaction struct {
	start, end int
}

// New creates a new Scrubber with the given configuration.
// If cfg is nil, DefaultConfig() is used.
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		return NoopScrubber{}, nil
	}
	return &scrubber{config: cfg}, nil
}

// Scrub redacts secrets from the content.
func (s *scrubber) Scrub(content string) *Result {
	result := &Result{
		Scrubbed: content,
		ByRule:   make(map[string]int),
	}

	var redactions []redaction
	record := func(ruleID, severity string, start, end int) {
		result.Findings = append(result.Findings, Finding{
			RuleID:   ruleID,
			Severity: severity,
			Line:     strings.Count(content[:start], "\n") + 1,
		})
		result.ByRule[ruleID]++
		redactions = append(redactions, redaction{start: start, end: end})
	}

	for _, rule := range s.config.compiledRules {
		for _, m := range rule.pattern.FindAllStringIndex(content, -1) {
			record(rule.ID, rule.Severity, m[0], m[1])
		}
	}

	for _, mask := range s.config.masks {
		for offset := 0; ; {
			i := strings.Index(content[offset:], mask)
			if i < 0 {
				break
			}
			start := offset + i
			record(maskRuleID, SeverityHigh, start, start+len(mask))
			offset = start + len(mask)
		}
	}

	if len(redactions) == 0 {
		return result
	}

	sort.Slice(redactions, func(i, j int) bool {
		return redactions[i].start < redactions[j].start
	})

	var b strings.Builder
	last := 0
	for _, r := range mergeRedactions(redactions) {
		b.WriteString(content[last:r.start])
		b.WriteString(s.config.RedactionString)
		last = r.end
	}
	b.WriteString(content[last:])
	result.Scrubbed = b.String()

	return result
}

// IsEnabled returns whether scrubbing is enabled.
func (s *scrubber) IsEnabled() bool {
	return s.config.Enabled
}

// mergeRedactions merges overlapping or adjacent redactions. Input must be
// sorted by start.
func mergeRedactions(redactions []redaction) []redaction {
	merged := []redaction{redactions[0]}

	for _, curr := range redactions[1:] {
		last := &merged[len(merged)-1]
		if curr.start <= last.end {
			if curr.end > last.end {
				last.end = curr.end
			}
			continue
		}
		merged = append(merged, curr)
	}

	return merged
}

// NoopScrubber returns content unchanged. Used when scrubbing is disabled.
type NoopScrubber struct{}

// Scrub returns content unchanged.
func (NoopScrubber) Scrub(content string) *Result {
	return &Result{Scrubbed: content, ByRule: map[string]int{}}
}

// IsEnabled returns false.
func (NoopScrubber) IsEnabled() bool {
	return false
}

var _ Scrubber = (*scrubber)(nil)
var _ Scrubber = NoopScrubber{}
