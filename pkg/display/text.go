package display

import (
	"fmt"
	"io"

	"github.com/arthur-debert/agentsmd/pkg/rules"
	"github.com/arthur-debert/agentsmd/pkg/sync"
)

// TextRenderer renders plain text without colors or styling, suitable for
// pipes and NO_COLOR environments.
type TextRenderer struct {
	output io.Writer
}

func NewTextRenderer(output io.Writer) *TextRenderer {
	return &TextRenderer{output: output}
}

func (r *TextRenderer) RenderResult(result *sync.Result) error {
	width := patternWidth(result.Entries)
	for _, entry := range result.Entries {
		if _, err := fmt.Fprintf(r.output, "%-*s  %s\n",
			width, entry.Pattern, relTo(result.Root, entry.Source)); err != nil {
			return err
		}
	}

	verb := "written to"
	if result.DryRun {
		verb = "planned for"
	}
	_, err := fmt.Fprintf(r.output, "%d rules %s %s (%s strategy)\n",
		len(result.Entries), verb, relTo(result.Root, result.RulesDir), result.Strategy)
	return err
}

func (r *TextRenderer) RenderRules(dir string, files []rules.FileInfo) error {
	width := 0
	for _, f := range files {
		if len(f.RelPath) > width {
			width = len(f.RelPath)
		}
	}
	for _, f := range files {
		if _, err := fmt.Fprintf(r.output, "%-*s  %s\n",
			width, f.RelPath, joinPatterns(f.Patterns)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(r.output, "%d rules in %s\n", len(files), dir)
	return err
}

func (r *TextRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

func (r *TextRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
