package secrets

// DefaultRules returns the rules applied to run logs. They cover tokens a
// GitHub Actions job is likely to see: GitHub's own, cloud provider keys
// passed as env vars, and credentials echoed by package managers.
func DefaultRules() []Rule {
	return []Rule{
		// GitHub (prefixes are self-identifying)
		{
			ID:          "github-token",
			Description: "GitHub Personal Access Token",
			Pattern:     `ghp_[A-Za-z0-9]{36}`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "github-oauth",
			Description: "GitHub OAuth Access Token",
			Pattern:     `gho_[A-Za-z0-9]{36}`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "github-app",
			Description: "GitHub App or Actions installation token",
			Pattern:     `(?:ghu|ghs|ghr)_[A-Za-z0-9]{36}`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "github-fine-grained",
			Description: "GitHub Fine-grained Personal Access Token",
			Pattern:     `github_pat_[A-Za-z0-9_]{22,}`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "actions-runtime",
			Description: "Actions runtime or OIDC request token",
			Pattern:     `(?i)(?:ACTIONS_RUNTIME_TOKEN|ACTIONS_ID_TOKEN_REQUEST_TOKEN)\s*[:=]\s*['"]?([^\s'"]{16,})['"]?`,
			Severity:    SeverityHigh,
		},

		{
			ID:          "aws-access-key-id",
			Description: "AWS Access Key ID",
			Pattern:     `(?:A3T[A-Z0-9]|AKIA|ASIA)[A-Z0-9]{16}`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "aws-secret-access-key",
			Description: "AWS Secret Access Key",
			Pattern:     `(?i)(?:aws_secret_access_key|secret_access_key)\s*[:=]\s*['"]?([A-Za-z0-9/+=]{40})['"]?`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "npm-token",
			Description: "npm Access Token",
			Pattern:     `npm_[A-Za-z0-9]{36}`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "slack-token",
			Description: "Slack Token",
			Pattern:     `xox[baprs]-[A-Za-z0-9\-]{10,}`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "private-key",
			Description: "Private Key",
			Pattern:     `-----BEGIN (?:RSA |DSA |EC |OPENSSH |PGP )?PRIVATE KEY(?:[- ]BLOCK)?-----`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "jwt",
			Description: "JSON Web Token",
			Pattern:     `eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`,
			Severity:    SeverityMedium,
		},
		{
			ID:          "bearer-token",
			Description: "Bearer Token in Authorization Header",
			Pattern:     `(?i)bearer\s+[A-Za-z0-9_\-\.=]{20,}`,
			Severity:    SeverityMedium,
		},
		{
			ID:          "url-credentials",
			Description: "Credentials embedded in a URL",
			Pattern:     `[a-zA-Z][a-zA-Z0-9+.-]*://[^\s:/@]+:[^\s@/]+@[^\s]+`,
			Severity:    SeverityHigh,
		},
		{
			ID:          "generic-secret",
			Description: "Generic Secret",
			Pattern:     `(?i)(?:secret|password|passwd|token)\s*[:=]\s*['"]?([^\s'"]{8,})['"]?`,
			Severity:    SeverityMedium,
		},
	}
}
