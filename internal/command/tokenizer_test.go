package command

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain words", "a b c", []string{"a", "b", "c"}},
		{"collapses whitespace", "  a \t b\t\tc  ", []string{"a", "b", "c"}},
		{"double quoted region", `/set-key "my key" "my value"`, []string{"/set-key", "my key", "my value"}},
		{"single quoted region", `/set-key 'my key' v`, []string{"/set-key", "my key", "v"}},
		{"single quote inside double", `say "it's fine"`, []string{"say", "it's fine"}},
		{"double quote inside single", `say 'a "b" c'`, []string{"say", `a "b" c`}},
		{"quotes join adjacent text", `ab"c d"ef`, []string{"abc def"}},
		{"reopened region in one token", `a"b c"d'e f'g`, []string{"ab cde fg"}},
		{"backslash is literal", `a\b c`, []string{`a\b`, "c"}},
		{"empty quotes between words", `a "" b`, []string{"a", "b"}},
		{"unicode passes through", "/set-bin café 日本", []string{"/set-bin", "café", "日本"}},
		{"invalid utf-8 kept byte for byte", "/set-bin a\xffb \"\xfe x\"", []string{"/set-bin", "a\xffb", "\xfe x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		got, err := Tokenize(input)
		require.NoError(t, err)
		assert.Empty(t, got, "input %q", input)
	}
}

func TestTokenize_UnclosedQuote(t *testing.T) {
	tests := []struct {
		input string
		delim rune
	}{
		{`/set-bin "foo`, '"'},
		{`/set-bin 'foo`, '\''},
		{`/set-bin "it's`, '"'},
		{`a "b" 'c`, '\''},
		{`ends with \"`, '"'},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			require.Error(t, err)
			assert.Nil(t, got)

			var uq *UnclosedQuoteError
			require.True(t, errors.As(err, &uq))
			assert.Equal(t, tt.delim, uq.Delimiter)
			assert.Equal(t, "Unclosed quote: expected closing "+string(tt.delim), err.Error())
		})
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	first, err := Tokenize("/clean  name")
	require.NoError(t, err)

	joined := ""
	for i, tok := range first {
		if i > 0 {
			joined += " "
		}
		joined += tok
	}

	second, err := Tokenize(joined)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
