package secrets

// Result contains the scrubbing result.
type Result struct {
	// Scrubbed is the content with secrets redacted
	Scrubbed string `json:"scrubbed"`

	// Findings contains the detected secrets (without actual values)
	Findings []Finding `json:"findings,omitempty"`

	// ByRule maps rule IDs to finding counts
	ByRule map[string]int `json:"by_rule,omitempty"`
}

// Finding represents a detected secret.
type Finding struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Line     int    `json:"line"` // 1-indexed
}

// HasFindings returns true if any secrets were found.
func (r *Result) HasFindings() bool {
	return len(r.Findings) > 0
}

// Summary returns a brief summary suitable for a log field.
func (r *Result) Summary() string {
	if !r.HasFindings() {
		return "no secrets detected"
	}
	for _, f := range r.Findings {
		if f.Severity == SeverityHigh {
			return "secrets redacted (high severity)"
		}
	}
	return "secrets redacted"
}
