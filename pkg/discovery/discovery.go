// Package discovery enumerates convention files in a repository.
//
// Two strategies implement the same Lister capability. GitLister asks git
// for tracked plus untracked-but-not-ignored files, which keeps ignored
// files and nested repositories out for free. WalkLister walks the tree for
// repositories without git and approximates the same behavior, minus
// ignore-file semantics.
package discovery

import (
	"github.com/spf13/afero"

	"github.com/arthur-debert/agentsmd/pkg/config"
	"github.com/arthur-debert/agentsmd/pkg/logging"
	"github.com/arthur-debert/agentsmd/pkg/paths"
)

// Strategy names the enumeration strategy that produced a listing.
type Strategy string

const (
	StrategyGit  Strategy = "git"
	StrategyWalk Strategy = "walk"
)

// Lister enumerates convention files under a repository root. Listings are
// absolute paths, sorted lexicographically, with no duplicates.
type Lister interface {
	Name() Strategy
	List() ([]string, error)
}

// Prober reports whether a directory is inside a git work tree.
type Prober func(dir string) bool

// ListSources selects a strategy for the repository and enumerates its
// convention files. A git repository is enumerated with git; anything else
// is walked. If git fails mid-listing the walk strategy takes over with a
// logged warning rather than aborting the run.
func ListSources(p paths.Paths, cfg *config.Config, fsys afero.Fs) ([]string, Strategy, error) {
	return ListSourcesWith(p, cfg, fsys, InGitWorkTree)
}

// ListSourcesWith is ListSources with an injectable git probe.
func ListSourcesWith(p paths.Paths, cfg *config.Config, fsys afero.Fs, probe Prober) ([]string, Strategy, error) {
	logger := logging.GetLogger("discovery")

	if probe(p.Root()) {
		git := NewGitLister(p.Root(), cfg.Source.Filename, cfg.ExcludeRoot())
		files, err := git.List()
		if err == nil {
			return files, StrategyGit, nil
		}
		logger.Warn().Err(err).Msg("Git enumeration failed, falling back to walking the tree")
	} else {
		logger.Debug().Str("root", p.Root()).Msg("Not a git work tree, walking")
	}

	walk := NewWalkLister(p.Root(), cfg.Source.Filename, cfg.ExcludeRoot(), fsys)
	files, err := walk.List()
	if err != nil {
		return nil, StrategyWalk, err
	}
	return files, StrategyWalk, nil
}
