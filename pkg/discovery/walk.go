package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/logging"
)

// WalkLister enumerates convention files by walking the tree. It skips .git
// directories, the owned rules tree, and any non-root directory that is
// itself a repository, but it cannot honor ignore files; that is the price
// of running without git.
type WalkLister struct {
	root     string
	filename string
	exclude  string
	fs       afero.Fs
	logger   zerolog.Logger
}

// NewWalkLister returns a filesystem-walking lister for root. exclude is
// the first path segment of the owned rules tree and may be empty.
func NewWalkLister(root, filename, exclude string, fsys afero.Fs) *WalkLister {
	return &WalkLister{
		root:     root,
		filename: filename,
		exclude:  exclude,
		fs:       fsys,
		logger:   logging.GetLogger("discovery.walk"),
	}
}

func (l *WalkLister) Name() Strategy {
	return StrategyWalk
}

func (l *WalkLister) List() ([]string, error) {
	var files []string
	err := afero.Walk(l.fs, l.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return l.visitDir(path)
		}
		if info.Name() != l.filename {
			return nil
		}
		l.logger.Trace().Str("path", path).Msg("Found convention file")
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrEnumerate,
			"failed to walk repository").
			WithDetail("root", l.root)
	}

	sort.Strings(files)
	l.logger.Debug().Int("count", len(files)).Msg("Enumerated convention files by walking")
	return files, nil
}

// visitDir decides whether the walk descends into a directory.
func (l *WalkLister) visitDir(dir string) error {
	if dir == l.root {
		return nil
	}
	base := filepath.Base(dir)
	if base == ".git" {
		return filepath.SkipDir
	}

	rel, err := filepath.Rel(l.root, dir)
	if err != nil {
		return err
	}
	rel = filepath.ToSlash(rel)

	if l.exclude != "" && (rel == l.exclude || strings.HasPrefix(rel, l.exclude+"/")) {
		l.logger.Trace().Str("path", rel).Msg("Skipping owned rules tree")
		return filepath.SkipDir
	}

	// A .git entry below the root marks a nested repository; its files
	// belong to that repository's own runs. Submodules and worktrees use a
	// .git file rather than a directory, so a plain stat covers both.
	if _, err := l.fs.Stat(filepath.Join(dir, ".git")); err == nil {
		l.logger.Trace().Str("path", rel).Msg("Skipping nested repository")
		return filepath.SkipDir
	}
	return nil
}

// joinRepoPath converts a repository-relative slash path to an absolute
// platform path.
func joinRepoPath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
