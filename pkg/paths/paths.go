// Package paths provides centralized path handling for agentsmd.
// It resolves the repository root once per run and derives every
// destination path from it, so the rest of the pipeline never does its own
// path arithmetic.
package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/agentsmd/pkg/config"
	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/logging"
)

// Environment variable names
const (
	// EnvRoot overrides repository root resolution entirely
	EnvRoot = "AGENTSMD_ROOT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Paths provides centralized path management for agentsmd
type Paths interface {
	// Root returns the absolute repository root for this run.
	Root() string
	// UsedFallback reports whether the working directory was used because
	// neither AGENTSMD_ROOT nor a git repository was found.
	UsedFallback() bool
	// RulesRoot returns the absolute rules directory, e.g. <root>/.agents/rules.
	RulesRoot() string
	// NamespaceDir returns the absolute owned output directory,
	// e.g. <root>/.agents/rules/agentsmd. It is deleted and recreated on
	// every run.
	NamespaceDir() string
	// OutputPath returns the destination for a source file found at the
	// given root-relative directory ("." for the root itself).
	OutputPath(relDir, filename string) string
	// NormalizePath expands ~, makes the path absolute and cleans it.
	NormalizePath(path string) (string, error)
	// IsInRepository reports whether a path lies within the repository root.
	IsInRepository(path string) (bool, error)
	// IsInNamespace reports whether a path lies within the owned output
	// directory.
	IsInNamespace(path string) (bool, error)
}

type paths struct {
	// root is the absolute repository root
	root string

	// rulesRoot and namespaceDir are derived from the configuration
	rulesRoot    string
	namespaceDir string

	// usedFallback indicates if we fell back to cwd (for warning display)
	usedFallback bool
}

// New creates a new Paths instance for the given repository root and
// configuration. If root is empty, it is resolved from the environment, the
// enclosing git repository, or the working directory, in that order.
func New(root string, cfg *config.Config) (Paths, error) {
	resolved, usedFallback, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}

	p := &paths{
		root:         resolved,
		usedFallback: usedFallback,
	}
	p.rulesRoot = filepath.Join(p.root, filepath.FromSlash(cfg.Rules.Dir))
	p.namespaceDir = filepath.Join(p.rulesRoot, cfg.Rules.Namespace)

	return p, nil
}

// ResolveRoot resolves the repository root without deriving any further
// paths. Callers that need the root before configuration is loaded (the
// repository's own config file lives at the root) use this and hand the
// result back to New. An explicit non-empty root wins over discovery. The
// boolean reports whether the working-directory fallback was used.
func ResolveRoot(root string) (string, bool, error) {
	usedFallback := false
	if root == "" {
		resolved, fellBack, err := findRepositoryRoot()
		if err != nil {
			return "", false, err
		}
		root = resolved
		usedFallback = fellBack
	} else {
		root = expandHome(root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrRootResolve,
			"failed to get absolute path for repository root")
	}
	return abs, usedFallback, nil
}

// findRepositoryRoot determines the repository root using the following priority:
// 1. AGENTSMD_ROOT environment variable (if set)
// 2. Git repository root (found via 'git rev-parse --show-toplevel')
// 3. Current working directory (fallback)
//
// The boolean result reports whether the working directory fallback was
// used, so the caller can warn once.
func findRepositoryRoot() (string, bool, error) {
	logger := logging.GetLogger("paths")

	// Check AGENTSMD_ROOT first (highest priority)
	if root := os.Getenv(EnvRoot); root != "" {
		logger.Trace().Str("root", root).Msg("Repository root from environment")
		return expandHome(root), false, nil
	}

	// Try to find git repository root
	gitRoot, err := findGitRoot()
	if err == nil && gitRoot != "" {
		logger.Trace().Str("root", gitRoot).Msg("Repository root from git")
		return gitRoot, false, nil
	}

	// Fallback to current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrRootResolve,
			"failed to get current directory")
	}

	logger.Trace().Str("root", cwd).Msg("Repository root from working directory fallback")
	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")

	output, err := cmd.Output()
	if err != nil {
		// Git command failed - not in a git repo or git not installed
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}

	return gitRoot, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// Root returns the absolute repository root
func (p *paths) Root() string {
	return p.root
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// RulesRoot returns the rules directory below the repository root
func (p *paths) RulesRoot() string {
	return p.rulesRoot
}

// NamespaceDir returns the owned output directory below the rules directory
func (p *paths) NamespaceDir() string {
	return p.namespaceDir
}

// OutputPath returns the destination path for a source file discovered at
// relDir, where relDir is slash-separated and relative to the root ("." for
// files at the root itself).
func (p *paths) OutputPath(relDir, filename string) string {
	if relDir == "" || relDir == "." {
		return filepath.Join(p.namespaceDir, filename)
	}
	return filepath.Join(p.namespaceDir, filepath.FromSlash(relDir), filename)
}

// NormalizePath normalizes a path by expanding home, making it absolute,
// and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	// Expand home directory
	expanded := expandHome(path)

	// Make absolute
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	// Clean the path
	return filepath.Clean(abs), nil
}

// IsInRepository checks if a path is within the repository root
func (p *paths) IsInRepository(path string) (bool, error) {
	return p.isUnder(p.root, path)
}

// IsInNamespace checks if a path is within the owned output directory
func (p *paths) IsInNamespace(path string) (bool, error) {
	return p.isUnder(p.namespaceDir, path)
}

func (p *paths) isUnder(base, path string) (bool, error) {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(base, normalized)
	if err != nil {
		return false, nil
	}

	// A leading ".." segment means the path escapes base. A plain prefix
	// check would also reject legal names like "..foo".
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return true, nil
}
