// Package command recognizes and validates slash commands in comment text.
//
// Validation is a pure function of the text and a Registry snapshot:
//
//	res, ok := command.Validate(body, reg)
//	if !ok {
//	    // no slash command in the text, nothing to do
//	}
//	if res.Accepted() {
//	    run(res.Command, res.Args)
//	}
//
// Quote errors are reported before registry lookups, and unknown commands are
// reported before argument counts are checked.
package command

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a validation outcome.
type Kind string

const (
	KindAccepted            Kind = "accepted"
	KindUnclosedQuote       Kind = "unclosed_quote"
	KindUnknownCommand      Kind = "unknown_command"
	KindArityMismatch       Kind = "arity_mismatch"
	KindRegistryUnavailable Kind = "registry_unavailable"
)

// Result is the terminal outcome of validating one command line.
type Result struct {
	Kind Kind `json:"kind"`

	// Line is the trimmed command line that was validated.
	Line string `json:"line"`

	// Command and Args are set when Kind is KindAccepted.
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	// Message is the user-facing reason for a rejection.
	Message string `json:"message,omitempty"`
}

// Accepted reports whether the command passed validation.
func (r Result) Accepted() bool {
	return r.Kind == KindAccepted
}

// Rejected reports whether the command failed validation.
func (r Result) Rejected() bool {
	return r.Kind != "" && r.Kind != KindAccepted
}

// RegistryUnavailableMessage is the rejection message used when no registry
// could be loaded.
const RegistryUnavailableMessage = "Command registry unavailable: no commands can be accepted"

// ExtractCommandLine returns the first line of text whose trimmed form starts
// with a slash. The returned line is trimmed.
func ExtractCommandLine(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "/") {
			return trimmed, true
		}
	}
	return "", false
}

// Validate validates the first slash command found in text against reg.
//
// The boolean is false when text contains no slash command; the Result is
// then the zero value and must not be treated as a rejection. A nil reg
// rejects every command.
func Validate(text string, reg *Registry) (Result, bool) {
	line, ok := ExtractCommandLine(text)
	if !ok {
		return Result{}, false
	}
	return ValidateLine(line, reg), true
}

// ValidateLine validates a single command line.
func ValidateLine(line string, reg *Registry) Result {
	tokens, err := Tokenize(line)
	if err != nil {
		var uq *UnclosedQuoteError
		if errors.As(err, &uq) {
			return reject(line, KindUnclosedQuote, uq.Error())
		}
		return reject(line, KindUnclosedQuote, err.Error())
	}

	if reg == nil {
		return reject(line, KindRegistryUnavailable, RegistryUnavailableMessage)
	}

	if len(tokens) == 0 {
		return reject(line, KindUnknownCommand, "Unknown command: "+line)
	}
	name, args := tokens[0], tokens[1:]

	spec, found := reg.Lookup(name)
	if !found {
		return reject(line, KindUnknownCommand, fmt.Sprintf("Unknown command: %s", name))
	}

	if !spec.Accepts(len(args)) {
		return reject(line, KindArityMismatch, spec.Usage)
	}

	return Result{
		Kind:    KindAccepted,
		Line:    line,
		Command: name,
		Args:    append([]string{}, args...),
	}
}

func reject(line string, kind Kind, msg string) Result {
	return Result{Kind: kind, Line: line, Message: msg}
}
