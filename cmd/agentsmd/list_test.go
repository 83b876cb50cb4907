package agentsmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/agentsmd/pkg/rules"
	"github.com/arthur-debert/agentsmd/pkg/testutil"
)

// seedRules runs a quiet sync so list has something to show.
func seedRules(t *testing.T, files map[string]string) *testutil.RepoEnv {
	t.Helper()

	env := testutil.NewRepoEnv(t, files)
	t.Setenv("AGENTSMD_ROOT", env.Root)
	isolateConfig(t)

	rootCmd := NewRootCmd()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"sync", "--quiet"})
	testutil.AssertNoError(t, rootCmd.Execute())

	return env
}

func TestListCmd(t *testing.T) {
	seedRules(t, map[string]string{
		"AGENTS.md":      "Root conventions.\n",
		"docs/AGENTS.md": "Docs conventions.\n",
	})

	var out bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"list"})

	testutil.AssertNoError(t, rootCmd.Execute())

	output := out.String()
	testutil.AssertContains(t, output, "AGENTS.md")
	testutil.AssertContains(t, output, "docs/AGENTS.md")
	testutil.AssertContains(t, output, "docs/**/*")
	testutil.AssertContains(t, output, "2 rules in .agents/rules/agentsmd")
}

func TestListCmdJSON(t *testing.T) {
	seedRules(t, map[string]string{
		"AGENTS.md":      "Root conventions.\n",
		"docs/AGENTS.md": "Docs conventions.\n",
	})

	var out bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"list", "--format", "json"})

	testutil.AssertNoError(t, rootCmd.Execute())

	var payload struct {
		RulesDir string           `json:"rules_dir"`
		Rules    []rules.FileInfo `json:"rules"`
	}
	testutil.AssertNoError(t, json.Unmarshal(out.Bytes(), &payload))

	testutil.AssertEqual(t, ".agents/rules/agentsmd", payload.RulesDir)
	testutil.AssertEqual(t, 2, len(payload.Rules))
	testutil.AssertEqual(t, "AGENTS.md", payload.Rules[0].RelPath)
	testutil.AssertSliceEqual(t, []string{"**/*"}, payload.Rules[0].Patterns)
	testutil.AssertEqual(t, "docs/AGENTS.md", payload.Rules[1].RelPath)
	testutil.AssertSliceEqual(t, []string{"docs/**/*"}, payload.Rules[1].Patterns)
}

func TestListCmdBeforeFirstSync(t *testing.T) {
	env := testutil.NewRepoEnv(t, map[string]string{
		"AGENTS.md": "Root conventions.\n",
	})
	t.Setenv("AGENTSMD_ROOT", env.Root)
	isolateConfig(t)

	var out bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"list"})

	// Listing before anything was published is an empty answer, not an
	// error.
	testutil.AssertNoError(t, rootCmd.Execute())
	testutil.AssertContains(t, out.String(), "0 rules in .agents/rules/agentsmd")
}

func TestListCmdBadFormat(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"list", "--format", "yaml"})

	testutil.AssertError(t, rootCmd.Execute())
}
