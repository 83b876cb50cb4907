package display

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/agentsmd/pkg/discovery"
	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/rules"
	"github.com/arthur-debert/agentsmd/pkg/sync"
	"github.com/arthur-debert/agentsmd/pkg/testutil"
)

// sampleResult builds a two-entry result rooted at a fake repository path.
// Renderers never touch the filesystem, so the root does not have to exist.
func sampleResult() *sync.Result {
	root := filepath.FromSlash("/repo")
	return &sync.Result{
		Root:     root,
		RulesDir: filepath.Join(root, ".agents", "rules", "agentsmd"),
		Strategy: discovery.StrategyWalk,
		Entries: []sync.Entry{
			{
				Source:     filepath.Join(root, "AGENTS.md"),
				RelDir:     ".",
				Pattern:    "**/*",
				OutputPath: filepath.Join(root, ".agents", "rules", "agentsmd", "AGENTS.md"),
			},
			{
				Source:     filepath.Join(root, "docs", "AGENTS.md"),
				RelDir:     "docs",
				Pattern:    "docs/**/*",
				OutputPath: filepath.Join(root, ".agents", "rules", "agentsmd", "docs", "AGENTS.md"),
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"auto", FormatAuto},
		{"", FormatAuto},
		{"term", FormatTerminal},
		{"terminal", FormatTerminal},
		{"TERM", FormatTerminal},
		{"text", FormatText},
		{"plain", FormatText},
		{"json", FormatJSON},
	}

	for _, tt := range tests {
		format, err := ParseFormat(tt.input)
		testutil.AssertNoError(t, err, "ParseFormat(%q)", tt.input)
		testutil.AssertEqual(t, tt.expected, format, "ParseFormat(%q)", tt.input)
	}

	_, err := ParseFormat("yaml")
	testutil.AssertError(t, err, "unknown formats should be rejected")
	testutil.AssertTrue(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatAuto, "auto"},
		{FormatTerminal, "term"},
		{FormatText, "text"},
		{FormatJSON, "json"},
		{Format(99), "unknown"},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, tt.expected, tt.format.String())
	}
}

func TestDetectFormatNonTerminal(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "out")
	testutil.AssertNoError(t, err)
	defer func() { _ = file.Close() }()

	// A regular file is never a terminal.
	testutil.AssertEqual(t, FormatText, DetectFormat(file))

	t.Setenv("NO_COLOR", "1")
	testutil.AssertEqual(t, FormatText, DetectFormat(file))
}

func TestNewRenderer(t *testing.T) {
	var buf bytes.Buffer

	r, err := NewRenderer(FormatTerminal, &buf)
	testutil.AssertNoError(t, err)
	_, ok := r.(*TerminalRenderer)
	testutil.AssertTrue(t, ok, "expected *TerminalRenderer, got %T", r)

	r, err = NewRenderer(FormatText, &buf)
	testutil.AssertNoError(t, err)
	_, ok = r.(*TextRenderer)
	testutil.AssertTrue(t, ok, "expected *TextRenderer, got %T", r)

	r, err = NewRenderer(FormatJSON, &buf)
	testutil.AssertNoError(t, err)
	_, ok = r.(*JSONRenderer)
	testutil.AssertTrue(t, ok, "expected *JSONRenderer, got %T", r)

	_, err = NewRenderer(Format(99), &buf)
	testutil.AssertError(t, err)
}

func TestNewRendererAutoFallsBackToText(t *testing.T) {
	// Auto with a plain writer cannot inspect a file handle, so it must
	// choose the pipe-safe format.
	var buf bytes.Buffer
	r, err := NewRenderer(FormatAuto, &buf)
	testutil.AssertNoError(t, err)
	_, ok := r.(*TextRenderer)
	testutil.AssertTrue(t, ok, "expected *TextRenderer, got %T", r)
}

func TestTextRendererResult(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	testutil.AssertNoError(t, r.RenderResult(sampleResult()))

	expected := "**/*       AGENTS.md\n" +
		"docs/**/*  docs/AGENTS.md\n" +
		"2 rules written to .agents/rules/agentsmd (walk strategy)\n"
	testutil.AssertEqual(t, expected, buf.String())
}

func TestTextRendererDryRun(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	result := sampleResult()
	result.DryRun = true
	result.Entries = result.Entries[:1]
	testutil.AssertNoError(t, r.RenderResult(result))

	expected := "**/*  AGENTS.md\n" +
		"1 rules planned for .agents/rules/agentsmd (walk strategy)\n"
	testutil.AssertEqual(t, expected, buf.String())
}

func TestTextRendererRules(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	files := []rules.FileInfo{
		{RelPath: "AGENTS.md", Patterns: []string{"**/*"}},
		{RelPath: "docs/AGENTS.md", Patterns: []string{"docs/**/*"}},
	}
	testutil.AssertNoError(t, r.RenderRules(".agents/rules/agentsmd", files))

	expected := "AGENTS.md       **/*\n" +
		"docs/AGENTS.md  docs/**/*\n" +
		"2 rules in .agents/rules/agentsmd\n"
	testutil.AssertEqual(t, expected, buf.String())
}

func TestTextRendererError(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)

	err := errors.New(errors.ErrSourceRead, "cannot read source")
	testutil.AssertNoError(t, r.RenderError(err))
	testutil.AssertEqual(t, "Error: [SOURCE_READ] cannot read source\n", buf.String())
}

func TestTerminalRendererResult(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*sync.Result)
		expected []string
	}{
		{
			name:   "full run",
			mutate: func(r *sync.Result) {},
			expected: []string{
				"Sync",
				"**/*",
				"docs/**/*",
				"docs/AGENTS.md",
				"2 rules written to .agents/rules/agentsmd (walk strategy)",
			},
		},
		{
			name:   "dry run",
			mutate: func(r *sync.Result) { r.DryRun = true },
			expected: []string{
				"Sync (dry run)",
				"2 rules planned for .agents/rules/agentsmd (walk strategy)",
			},
		},
		{
			name:   "empty run",
			mutate: func(r *sync.Result) { r.Entries = nil },
			expected: []string{
				"Sync",
				"No convention files found.",
				"0 rules written to",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewTerminalRenderer(&buf)

			result := sampleResult()
			tt.mutate(result)
			testutil.AssertNoError(t, r.RenderResult(result))

			output := buf.String()
			for _, expected := range tt.expected {
				testutil.AssertContains(t, output, expected)
			}
		})
	}
}

func TestTerminalRendererRules(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalRenderer(&buf)

	files := []rules.FileInfo{
		{RelPath: "AGENTS.md", Patterns: []string{"**/*"}},
		{RelPath: "docs/AGENTS.md", Patterns: []string{"docs/**/*"}},
	}
	testutil.AssertNoError(t, r.RenderRules(".agents/rules/agentsmd", files))

	output := buf.String()
	testutil.AssertContains(t, output, "Rules")
	testutil.AssertContains(t, output, "docs/AGENTS.md")
	testutil.AssertContains(t, output, "2 rules in .agents/rules/agentsmd")
}

func TestTerminalRendererRulesEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalRenderer(&buf)

	testutil.AssertNoError(t, r.RenderRules(".agents/rules/agentsmd", nil))
	testutil.AssertContains(t, buf.String(), "No rules yet. Run sync first.")
}

func TestTerminalRendererError(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalRenderer(&buf)

	err := errors.New(errors.ErrDestClear, "cannot clear destination")
	testutil.AssertNoError(t, r.RenderError(err))
	testutil.AssertContains(t, buf.String(), "[DEST_CLEAR] cannot clear destination")
}

func TestJSONRendererResult(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)

	result := sampleResult()
	testutil.AssertNoError(t, r.RenderResult(result))

	var decoded sync.Result
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	testutil.AssertEqual(t, *result, decoded, "result should round-trip through JSON")
}

func TestJSONRendererRules(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)

	files := []rules.FileInfo{
		{Path: "/repo/.agents/rules/agentsmd/AGENTS.md", RelPath: "AGENTS.md", Patterns: []string{"**/*"}},
	}
	testutil.AssertNoError(t, r.RenderRules("/repo/.agents/rules/agentsmd", files))

	var decoded struct {
		RulesDir string           `json:"rules_dir"`
		Rules    []rules.FileInfo `json:"rules"`
	}
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	testutil.AssertEqual(t, "/repo/.agents/rules/agentsmd", decoded.RulesDir)
	testutil.AssertEqual(t, 1, len(decoded.Rules))
	testutil.AssertEqual(t, files[0], decoded.Rules[0])
}

func TestJSONRendererRulesEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)

	testutil.AssertNoError(t, r.RenderRules("/repo/.agents/rules/agentsmd", nil))

	// Scripts iterate the list, so an empty tree must encode as [] and
	// never as null.
	testutil.AssertContains(t, buf.String(), `"rules": []`)
}

func TestJSONRendererError(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)

	err := errors.New(errors.ErrSourceRead, "cannot read source").
		WithDetail("path", "/repo/AGENTS.md")
	testutil.AssertNoError(t, r.RenderError(err))

	var decoded map[string]interface{}
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	testutil.AssertEqual(t, "[SOURCE_READ] cannot read source", decoded["error"])

	details, ok := decoded["details"].(map[string]interface{})
	testutil.AssertTrue(t, ok, "details should be an object, got %T", decoded["details"])
	testutil.AssertEqual(t, "/repo/AGENTS.md", details["path"])
}

func TestJSONRendererMessage(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONRenderer(&buf)

	testutil.AssertNoError(t, r.RenderMessage("nothing to do"))

	var decoded map[string]string
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	testutil.AssertEqual(t, "nothing to do", decoded["message"])
}
