package command

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// UnclosedQuoteError is returned by Tokenize when input ends inside a quoted region.
type UnclosedQuoteError struct {
	Delimiter rune
}

// Error implements the error interface.
func (e *UnclosedQuoteError) Error() string {
	return fmt.Sprintf("Unclosed quote: expected closing %c", e.Delimiter)
}

// scanState is the tokenizer state. Zero value is Normal.
type scanState struct {
	inQuote bool
	quote   rune
}

// Tokenize splits a line into whitespace separated tokens.
//
// Single and double quotes group characters (including whitespace) into one
// token. A quote character inside a region opened by the other kind is literal.
// There is no escape character: a backslash is copied through verbatim.
// Token bytes are copied from line unchanged, including invalid UTF-8.
func Tokenize(line string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		state   scanState
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		raw := line[i : i+size]
		i += size

		switch {
		case state.inQuote && r == state.quote:
			state = scanState{}
		case state.inQuote:
			current.WriteString(raw)
		case r == '"' || r == '\'':
			state = scanState{inQuote: true, quote: r}
		case unicode.IsSpace(r):
			flush()
		default:
			current.WriteString(raw)
		}
	}

	if state.inQuote {
		return nil, &UnclosedQuoteError{Delimiter: state.quote}
	}
	flush()

	return tokens, nil
}
