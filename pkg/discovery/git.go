package discovery

import (
	"os/exec"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/logging"
)

// GitLister enumerates convention files with git ls-files. It takes the
// union of tracked files and untracked-but-not-ignored files, so a freshly
// created convention file shows up before its first commit while ignored
// files and nested repositories stay out.
type GitLister struct {
	root     string
	filename string
	exclude  string
	logger   zerolog.Logger
}

// NewGitLister returns a git-backed lister for root. exclude is the first
// path segment of the owned rules tree and may be empty.
func NewGitLister(root, filename, exclude string) *GitLister {
	return &GitLister{
		root:     root,
		filename: filename,
		exclude:  exclude,
		logger:   logging.GetLogger("discovery.git"),
	}
}

func (l *GitLister) Name() Strategy {
	return StrategyGit
}

func (l *GitLister) List() ([]string, error) {
	tracked, err := l.lsFiles("-z")
	if err != nil {
		return nil, err
	}
	others, err := l.lsFiles("-z", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}

	// A file can appear in both listings around an index update, so dedup
	// before sorting.
	seen := make(map[string]struct{})
	var rels []string
	for _, rel := range append(tracked, others...) {
		if !isConventionPath(rel, l.filename, l.exclude) {
			continue
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	files := make([]string, len(rels))
	for i, rel := range rels {
		files[i] = joinRepoPath(l.root, rel)
		l.logger.Trace().Str("path", rel).Msg("Found convention file")
	}
	l.logger.Debug().Int("count", len(files)).Msg("Enumerated convention files via git")
	return files, nil
}

// lsFiles runs git ls-files with the given flags and splits the
// NUL-terminated output into repository-relative slash paths.
func (l *GitLister) lsFiles(args ...string) ([]string, error) {
	cmdArgs := append([]string{"ls-files"}, args...)
	logging.LogCommand("git", cmdArgs)

	cmd := exec.Command("git", cmdArgs...)
	cmd.Dir = l.root
	output, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGitCommand,
			"git %s failed", strings.Join(cmdArgs, " ")).
			WithDetail("root", l.root)
	}

	var files []string
	for _, f := range strings.Split(string(output), "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}

// isConventionPath reports whether a repository-relative slash path names a
// convention file outside the excluded namespace.
func isConventionPath(rel, filename, exclude string) bool {
	if path.Base(rel) != filename {
		return false
	}
	if exclude != "" && (rel == exclude || strings.HasPrefix(rel, exclude+"/")) {
		return false
	}
	return true
}

// InGitWorkTree reports whether dir is inside a git work tree. Any failure,
// including a missing git binary, reads as false.
func InGitWorkTree(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) == "true"
}
