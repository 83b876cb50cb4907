package rules

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/agentsmd/pkg/errors"
)

func TestRenderStructure(t *testing.T) {
	doc := &Document{
		Patterns: []string{"docs/**/*"},
		Body:     []byte("# Docs\n"),
	}

	out, err := doc.Render()
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "---\n"), "header opens the file")
	assert.Contains(t, text, "globs:")
	assert.True(t, strings.HasSuffix(text, "\n---\n\n# Docs\n"),
		"header close, one blank line, then the body")
}

func TestRenderBodyVerbatim(t *testing.T) {
	body := "line one\n\n\tindented\nline  with  spaces"
	doc := &Document{
		Patterns: []string{"**/*"},
		Body:     []byte(body),
	}

	out, err := doc.Render()
	require.NoError(t, err)

	// No trailing newline in, no trailing newline out.
	assert.True(t, bytes.HasSuffix(out, []byte(body)))
	assert.False(t, bytes.HasSuffix(out, []byte("spaces\n")))
}

func TestRenderEmptyPatterns(t *testing.T) {
	doc := &Document{Body: []byte("# Orphan\n")}

	_, err := doc.Render()

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRuleRender))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{
			name: "root pattern",
			doc:  Document{Patterns: []string{"**/*"}, Body: []byte("# Root\n")},
		},
		{
			name: "subdirectory pattern",
			doc:  Document{Patterns: []string{"docs/**/*"}, Body: []byte("# Docs\n")},
		},
		{
			name: "multiple patterns",
			doc:  Document{Patterns: []string{"a/**/*", "b/**/*"}, Body: []byte("shared\n")},
		},
		{
			name: "no trailing newline",
			doc:  Document{Patterns: []string{"**/*"}, Body: []byte("# Root")},
		},
		{
			name: "empty body",
			doc:  Document{Patterns: []string{"**/*"}, Body: []byte("")},
		},
		{
			name: "body containing delimiter lines",
			doc:  Document{Patterns: []string{"**/*"}, Body: []byte("above\n---\nbelow\n")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.doc.Render()
			require.NoError(t, err)

			parsed, err := Parse(out)
			require.NoError(t, err)

			assert.Equal(t, tt.doc.Patterns, parsed.Patterns)
			assert.Equal(t, string(tt.doc.Body), string(parsed.Body))
		})
	}
}

func TestParseAcceptsAnyQuoting(t *testing.T) {
	content := "---\nglobs:\n  - \"docs/**/*\"\n---\n\n# Docs\n"

	doc, err := Parse([]byte(content))

	require.NoError(t, err)
	assert.Equal(t, []string{"docs/**/*"}, doc.Patterns)
	assert.Equal(t, "# Docs\n", string(doc.Body))
}

func TestParseRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no header block",
			content: "# Just markdown\n",
		},
		{
			name:    "empty header",
			content: "---\n---\n\n# Body\n",
		},
		{
			name:    "unterminated header",
			content: "---\nglobs:\n  - '**/*'\n",
		},
		{
			name:    "missing blank line",
			content: "---\nglobs:\n  - '**/*'\n---\n# Body\n",
		},
		{
			name:    "header is not yaml",
			content: "---\nglobs: [unclosed\n---\n\n# Body\n",
		},
		{
			name:    "header without globs",
			content: "---\nname: something\n---\n\n# Body\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))

			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrRuleParse),
				"got %v", err)
		})
	}
}
