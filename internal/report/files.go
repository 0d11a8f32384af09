package report

import (
	"errors"
	"fmt"
	"os"

	"github.com/fyrsmithlabs/chatops/internal/secrets"
)

// Fallback bodies used when the command step left no readable output.
const (
	MissingReportBody = HeaderApplied + "\n\nCommand executed successfully, but report generation failed."
	MissingLogText    = "Log file not found. Please check Action logs."
)

// ReadReport returns the report written by the command step. A missing or
// unreadable file yields a fallback body instead of an error, since the
// command itself already succeeded.
func ReadReport(path string) string {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return MissingReportBody
	case err != nil:
		return fmt.Sprintf("%s\n\nError reading report: %v", HeaderApplied, err)
	}
	return string(data)
}

// ReadLog returns the run log, or a placeholder explaining why it is absent.
func ReadLog(path string) string {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return MissingLogText
	case err != nil:
		return fmt.Sprintf("Error reading log: %v", err)
	}
	return string(data)
}

// PrepareLog scrubs secrets from log and truncates it to maxChars. It
// returns the scrub result so callers can log what was removed.
func PrepareLog(log string, scrubber secrets.Scrubber, maxChars int) (string, *secrets.Result) {
	if scrubber == nil {
		scrubber = secrets.NoopScrubber{}
	}
	res := scrubber.Scrub(log)
	return TruncateLog(res.Scrubbed, maxChars), res
}
