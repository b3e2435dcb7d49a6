package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	text := strings.Repeat("line of text\n", 50)
	parts := SplitMessage(text, 100)
	assert.Greater(t, len(parts), 1)
	assert.Equal(t, text, strings.Join(parts, ""))
	for _, p := range parts[:len(parts)-1] {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 100)
		assert.True(t, strings.HasSuffix(p, "\n"), "split at newline: %q", p)
	}

	cyrillic := strings.Repeat("ж", 250)
	parts = SplitMessage(cyrillic, 100)
	assert.Len(t, parts, 3)
	assert.Equal(t, cyrillic, strings.Join(parts, ""))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `azure\_gpt\*4o \[x] \`+"`", Escape("azure_gpt*4o [x] `"))
	assert.Equal(t, "plain", Escape("plain"))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "`a'b`", Code("a`b"))
	assert.Equal(t, "```\nrow\n```", CodeBlock("row"))
}
