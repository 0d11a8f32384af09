package workflows

import (
	"fmt"
)

// ErrorSeverity classifies workflow errors.
type ErrorSeverity string

const (
	// ErrorSeverityCritical indicates the workflow must fail
	ErrorSeverityCritical ErrorSeverity = "critical"
	// ErrorSeverityHigh indicates a major issue but workflow can continue
	ErrorSeverityHigh ErrorSeverity = "high"
	// ErrorSeverityLow indicates a minor issue that doesn't affect main functionality
	ErrorSeverityLow ErrorSeverity = "low"
)

// WorkflowError represents a structured error in a workflow
type WorkflowError struct {
	Operation string        // e.g. "validate_comment", "post_syntax_error"
	Severity  ErrorSeverity // How severe the error is
	Err       error         // The underlying error
	Context   string        // Additional context about the error
}

// Error implements the error interface
func (e *WorkflowError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s failed: %s (%s)", e.Operation, e.Err.Error(), e.Context)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Err.Error())
}

// Unwrap allows errors.Is and errors.As to work with WorkflowError
func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// NewWorkflowError creates a new workflow error with context
func NewWorkflowError(operation string, severity ErrorSeverity, err error, context string) *WorkflowError {
	return &WorkflowError{
		Operation: operation,
		Severity:  severity,
		Err:       err,
		Context:   context,
	}
}

// FormatErrorForResult formats an error for inclusion in a result's Errors slice.
func FormatErrorForResult(operation string, err error) string {
	return fmt.Sprintf("%s: %v", operation, err)
}

// ErrorHandlingGuidelines documents how the chatops workflow treats failures.
//
// CRITICAL (Propagate & Record):
//   - The comment could not be validated at all, or no registry is loaded
//   - Pattern: add to result.Errors AND return the error to fail the workflow
//
// HIGH (Record but Continue):
//   - Posting the syntax error comment failed
//   - Pattern: add to result.Errors, keep going so the reaction still lands
//
// LOW (Log as Warning):
//   - Adding a reaction failed
//   - Pattern: log as warning, DON'T add to result.Errors, DON'T return error
//
// Error messages use past tense ("failed to post comment") and wrap with %w.
