// Package report renders the markdown comments chatops posts back to the
// triggering pull request.
//
// All Format functions are pure. Reading the report and log files written
// by earlier workflow steps is kept separate in ReadReport and ReadLog so
// callers decide how failures to read are surfaced.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/chatops/internal/command"
)

// Comment headers. The workflow looks for these to recognize its own comments.
const (
	HeaderSyntaxError = "### ⚠️ ChatOps Syntax Error"
	HeaderFailed      = "### ❌ ChatOps Command Failed"
	HeaderApplied     = "### ✅ ChatOps Applied"
)

// DefaultMaxLogChars bounds the log excerpt quoted in failure comments.
const DefaultMaxLogChars = 2000

const truncatedSuffix = "\n... (truncated)"

// FormatRejection renders a rejected validation result together with the
// usage guide.
func FormatRejection(res command.Result, guide string) string {
	var b strings.Builder

	b.WriteString(HeaderSyntaxError)
	b.WriteString("\n\n")
	b.WriteString("**Command:** ")
	b.WriteString(inlineCode(res.Line))
	b.WriteString("\n")
	b.WriteString("**Error:** ")
	b.WriteString(res.Message)
	b.WriteString("\n\n")
	b.WriteString("**Usage Guide:**\n")
	b.WriteString(strings.TrimRight(guide, "\n"))
	b.WriteString("\n")

	return b.String()
}

// FormatSuccess appends the action log link to the report body produced by
// the command step.
func FormatSuccess(body, link string) string {
	if link == "" {
		return body
	}
	return body + "\n\n" + markdownLink(link)
}

// FormatFailure renders the failure comment. log should already be scrubbed
// and truncated, see PrepareLog.
func FormatFailure(log, guide, link string) string {
	var b strings.Builder

	b.WriteString(HeaderFailed)
	b.WriteString("\n\n")
	b.WriteString("**Error Details:**\n")
	b.WriteString(fence(log))
	b.WriteString("text\n")
	b.WriteString(log)
	if !strings.HasSuffix(log, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence(log))
	b.WriteString("\n\n")

	if guide != "" {
		b.WriteString(strings.TrimRight(guide, "\n"))
		b.WriteString("\n\n")
	}
	if link != "" {
		b.WriteString(markdownLink(link))
		b.WriteString("\n")
	}

	return b.String()
}

// TruncateLog cuts log to at most max runes, marking the cut.
func TruncateLog(log string, max int) string {
	if max <= 0 || utf8.RuneCountInString(log) <= max {
		return log
	}
	runes := []rune(log)
	return string(runes[:max]) + truncatedSuffix
}

// ActionLogLink returns the URL of the workflow run, or "" when the run is
// not known.
func ActionLogLink(serverURL, owner, repo, runID string) string {
	if serverURL == "" || owner == "" || repo == "" || runID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/actions/runs/%s", strings.TrimRight(serverURL, "/"), owner, repo, runID)
}

func markdownLink(link string) string {
	return "[View Action Log](" + link + ")"
}

// inlineCode wraps s in a code span long enough that backticks inside s
// cannot close it.
func inlineCode(s string) string {
	ticks := "`"
	for strings.Contains(s, ticks) {
		ticks += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return ticks + " " + s + " " + ticks
	}
	return ticks + s + ticks
}

// fence returns a code fence longer than any backtick run in s.
func fence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}
