package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/agentsmd/pkg/rules"
	"github.com/arthur-debert/agentsmd/pkg/sync"
)

// TerminalRenderer renders rich output with colors and prefixes.
type TerminalRenderer struct {
	output io.Writer
}

func NewTerminalRenderer(output io.Writer) *TerminalRenderer {
	return &TerminalRenderer{output: output}
}

// RenderResult renders a run as a title, one aligned line per rule, and a
// summary line.
func (r *TerminalRenderer) RenderResult(result *sync.Result) error {
	title := "Sync"
	if result.DryRun {
		title += " (dry run)"
	}
	if _, err := fmt.Fprintln(r.output, titleStyle.Render(title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.output); err != nil {
		return err
	}

	if len(result.Entries) == 0 {
		if _, err := fmt.Fprintln(r.output, indent(mutedStyle.Render("No convention files found."), 1)); err != nil {
			return err
		}
	}

	width := patternWidth(result.Entries)
	for _, entry := range result.Entries {
		line := fmt.Sprintf("%s  %s",
			patternStyle.Render(fmt.Sprintf("%-*s", width, entry.Pattern)),
			pathStyle.Render(relTo(result.Root, entry.Source)))
		if _, err := fmt.Fprintln(r.output, indent(line, 1)); err != nil {
			return err
		}
	}

	verb := "written to"
	if result.DryRun {
		verb = "planned for"
	}
	summary := fmt.Sprintf("%d rules %s %s (%s strategy)",
		len(result.Entries), verb, relTo(result.Root, result.RulesDir), result.Strategy)
	_, err := fmt.Fprintf(r.output, "\n%s %s\n", infoPrefix(), mutedStyle.Render(summary))
	return err
}

// RenderRules renders the parsed rules tree, one aligned line per file.
func (r *TerminalRenderer) RenderRules(dir string, files []rules.FileInfo) error {
	if _, err := fmt.Fprintln(r.output, titleStyle.Render("Rules")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.output); err != nil {
		return err
	}

	if len(files) == 0 {
		msg := "No rules yet. Run sync first."
		_, err := fmt.Fprintln(r.output, indent(mutedStyle.Render(msg), 1))
		return err
	}

	width := 0
	for _, f := range files {
		if len(f.RelPath) > width {
			width = len(f.RelPath)
		}
	}
	for _, f := range files {
		line := fmt.Sprintf("%s  %s",
			pathStyle.Render(fmt.Sprintf("%-*s", width, f.RelPath)),
			patternStyle.Render(joinPatterns(f.Patterns)))
		if _, err := fmt.Fprintln(r.output, indent(line, 1)); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d rules in %s", len(files), dir)
	_, err := fmt.Fprintf(r.output, "\n%s %s\n", infoPrefix(), mutedStyle.Render(summary))
	return err
}

// RenderError renders an error with the pterm error prefix. Coded errors
// already carry their code in the message.
func (r *TerminalRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "%s %s\n",
		pterm.Error.Prefix.Style.Sprint(" "+pterm.Error.Prefix.Text+" "),
		pterm.Error.MessageStyle.Sprint(err.Error()))
	return werr
}

// RenderMessage renders a simple one-line message.
func (r *TerminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func infoPrefix() string {
	return pterm.Info.Prefix.Style.Sprint(" " + pterm.Info.Prefix.Text + " ")
}

func joinPatterns(patterns []string) string {
	return strings.Join(patterns, ", ")
}
