// Package display renders command results for humans and machines. Each
// output format gets its own Renderer; NewRenderer picks between rich and
// plain automatically when asked to.
package display

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/rules"
	"github.com/arthur-debert/agentsmd/pkg/sync"
)

// Renderer is the common surface every output format implements.
type Renderer interface {
	// RenderResult renders the outcome of a run.
	RenderResult(result *sync.Result) error

	// RenderRules renders the current rules tree.
	RenderRules(dir string, files []rules.FileInfo) error

	// RenderError renders an error.
	RenderError(err error) error

	// RenderMessage renders a one-line message.
	RenderMessage(msg string) error
}

// NewRenderer returns the renderer for a format. Auto inspects the actual
// output handle; anything that is not a real file renders as plain text.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return NewTerminalRenderer(output), nil
	case FormatText:
		return NewTextRenderer(output), nil
	case FormatJSON:
		return NewJSONRenderer(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// relTo shortens path for display by expressing it relative to root.
// Anything that cannot be made relative stays absolute.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// patternWidth returns the widest pattern among entries, for column
// alignment.
func patternWidth(entries []sync.Entry) int {
	width := 0
	for _, e := range entries {
		if len(e.Pattern) > width {
			width = len(e.Pattern)
		}
	}
	return width
}
