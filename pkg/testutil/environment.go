// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Build throwaway repository trees for discovery and pipeline tests

package testutil

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// RepoEnv is a temporary repository tree for tests. It starts as a plain
// directory; InitGit turns it into a real git work tree when git is
// available.
type RepoEnv struct {
	Root string

	t *testing.T
}

// NewRepoEnv creates a temporary repository tree populated with files.
// Keys are slash-separated paths relative to the root, values are contents.
func NewRepoEnv(t *testing.T, files map[string]string) *RepoEnv {
	t.Helper()

	root := t.TempDir()
	// TempDir may sit behind a symlink (macOS /var -> /private/var); resolve
	// it so paths compare equal with what git rev-parse reports.
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	env := &RepoEnv{Root: root, t: t}
	for name, content := range files {
		CreateFile(t, root, filepath.FromSlash(name), content)
	}
	return env
}

// WriteFile adds or replaces a file under the root. The name is
// slash-separated and relative; parent directories are created as needed.
func (e *RepoEnv) WriteFile(name, content string) string {
	e.t.Helper()
	return CreateFile(e.t, e.Root, filepath.FromSlash(name), content)
}

// Mkdir creates a directory under the root.
func (e *RepoEnv) Mkdir(name string) string {
	e.t.Helper()
	return CreateDir(e.t, e.Root, filepath.FromSlash(name))
}

// MarkNestedRepo drops a .git directory under dir, making it look like an
// embedded repository without running git.
func (e *RepoEnv) MarkNestedRepo(dir string) {
	e.t.Helper()
	CreateDir(e.t, e.Root, filepath.Join(filepath.FromSlash(dir), ".git"))
}

// InitGit initializes a git repository at the root and stages everything
// present. It returns false when git is not available, in which case the
// caller should skip.
func (e *RepoEnv) InitGit() bool {
	e.t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		return false
	}

	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
		{"add", "-A"},
	} {
		e.Git(args...)
	}
	return true
}

// Git runs a git command inside the repository root and fails the test on
// error.
func (e *RepoEnv) Git(args ...string) string {
	e.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = e.Root
	out, err := cmd.CombinedOutput()
	if err != nil {
		e.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return string(out)
}

// ReadTree returns a flat map of slash-relative path -> content for every
// regular file under dir. It fails the test if the tree cannot be read.
func ReadTree(t *testing.T, dir string) map[string]string {
	t.Helper()

	tree := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to read tree at %s: %v", dir, err)
	}
	return tree
}
