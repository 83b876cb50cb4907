package discovery

// TEST TYPE: Integration Test (requires git on PATH, skips otherwise)

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/arthur-debert/agentsmd/pkg/config"
	"github.com/arthur-debert/agentsmd/pkg/paths"
	"github.com/arthur-debert/agentsmd/pkg/testutil"
)

// newGitEnv builds a repository tree and turns it into a real git work
// tree, skipping the test when git is unavailable. Files present at
// creation get staged; anything written afterwards stays untracked.
func newGitEnv(t *testing.T, files map[string]string) *testutil.RepoEnv {
	t.Helper()

	env := testutil.NewRepoEnv(t, files)
	if !env.InitGit() {
		t.Skip("git not available")
	}
	return env
}

func TestGitListerTrackedAndUntracked(t *testing.T) {
	env := newGitEnv(t, map[string]string{
		"AGENTS.md":      "# Root\n",
		"docs/AGENTS.md": "# Docs\n",
		"docs/guide.md":  "irrelevant\n",
	})
	// Written after staging, so git only sees it via --others.
	env.WriteFile("web/AGENTS.md", "# Web\n")

	lister := NewGitLister(env.Root, "AGENTS.md", ".agents")
	files, err := lister.List()

	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, []string{
		filepath.Join(env.Root, "AGENTS.md"),
		filepath.Join(env.Root, "docs", "AGENTS.md"),
		filepath.Join(env.Root, "web", "AGENTS.md"),
	}, files)
}

func TestGitListerHonorsIgnoreFiles(t *testing.T) {
	env := newGitEnv(t, map[string]string{
		".gitignore":      "build/\n",
		"AGENTS.md":       "# Root\n",
		"build/AGENTS.md": "# Generated\n",
	})

	lister := NewGitLister(env.Root, "AGENTS.md", ".agents")
	files, err := lister.List()

	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, []string{filepath.Join(env.Root, "AGENTS.md")}, files,
		"ignored files are not sources")
}

func TestGitListerExcludesOwnedTree(t *testing.T) {
	env := newGitEnv(t, map[string]string{
		"AGENTS.md": "# Root\n",
	})
	env.WriteFile(".agents/rules/agentsmd/AGENTS.md", "stale output\n")

	lister := NewGitLister(env.Root, "AGENTS.md", ".agents")
	files, err := lister.List()

	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, []string{filepath.Join(env.Root, "AGENTS.md")}, files)
}

func TestGitListerSkipsNestedRepository(t *testing.T) {
	env := newGitEnv(t, map[string]string{
		"AGENTS.md": "# Root\n",
	})
	env.WriteFile("vendor/lib/AGENTS.md", "# Lib\n")
	env.Git("init", "-q", "vendor/lib")

	lister := NewGitLister(env.Root, "AGENTS.md", ".agents")
	files, err := lister.List()

	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, []string{filepath.Join(env.Root, "AGENTS.md")}, files,
		"files of a nested repository belong to that repository")
}

func TestGitListerFailsOutsideRepository(t *testing.T) {
	env := testutil.NewRepoEnv(t, map[string]string{"AGENTS.md": "# Root\n"})
	if InGitWorkTree(env.Root) {
		t.Skip("temp dir sits inside a git work tree")
	}

	lister := NewGitLister(env.Root, "AGENTS.md", ".agents")
	_, err := lister.List()

	testutil.AssertError(t, err, "ls-files outside a repository must fail")
}

func TestGitAndWalkAgree(t *testing.T) {
	env := newGitEnv(t, map[string]string{
		"AGENTS.md":         "# Root\n",
		"docs/AGENTS.md":    "# Docs\n",
		"docs/extra.md":     "irrelevant\n",
		".github/AGENTS.md": "# CI\n",
	})
	env.WriteFile("web/AGENTS.md", "# Web\n")
	env.WriteFile("vendor/lib/AGENTS.md", "# Lib\n")
	env.Git("init", "-q", "vendor/lib")

	git := NewGitLister(env.Root, "AGENTS.md", ".agents")
	walk := NewWalkLister(env.Root, "AGENTS.md", ".agents", afero.NewOsFs())

	gitFiles, err := git.List()
	testutil.AssertNoError(t, err)
	walkFiles, err := walk.List()
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, gitFiles, walkFiles,
		"both strategies agree when no ignore rules are involved")
}

func TestInGitWorkTree(t *testing.T) {
	env := newGitEnv(t, map[string]string{"docs/AGENTS.md": "# Docs\n"})

	testutil.AssertTrue(t, InGitWorkTree(env.Root))
	testutil.AssertTrue(t, InGitWorkTree(filepath.Join(env.Root, "docs")),
		"subdirectories of a work tree probe true")
}

func TestListSourcesPicksGitInRepository(t *testing.T) {
	env := newGitEnv(t, map[string]string{
		"AGENTS.md":      "# Root\n",
		"docs/AGENTS.md": "# Docs\n",
	})
	cfg := config.Default()
	p, err := paths.New(env.Root, cfg)
	testutil.AssertNoError(t, err)

	files, strategy, err := ListSources(p, cfg, afero.NewOsFs())

	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, StrategyGit, strategy)
	testutil.AssertEqual(t, []string{
		filepath.Join(env.Root, "AGENTS.md"),
		filepath.Join(env.Root, "docs", "AGENTS.md"),
	}, files)
}
