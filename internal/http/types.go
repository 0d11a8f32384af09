package http

// WebhookResponse is the response body for POST /webhook.
type WebhookResponse struct {
	Status     string `json:"status"` // "started" or "ignored"
	Reason     string `json:"reason,omitempty"`
	WorkflowID string `json:"workflow_id,omitempty"`
	RunID      string `json:"run_id,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string `json:"status"` // "ok" or "degraded"
	Commands int    `json:"commands"`
}

// Webhook response statuses.
const (
	StatusStarted = "started"
	StatusIgnored = "ignored"
)

// Reasons a webhook delivery was ignored.
const (
	ReasonEvent     = "unsupported event"
	ReasonAction    = "unsupported action"
	ReasonBot       = "bot comment"
	ReasonNoCommand = "no command"
)
