// Package sync drives a full republish run: resolve the repository root,
// enumerate convention files, map each one to its destination rule, then
// rebuild the rules tree from scratch.
package sync

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/agentsmd/pkg/config"
	"github.com/arthur-debert/agentsmd/pkg/discovery"
	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/logging"
	"github.com/arthur-debert/agentsmd/pkg/mapping"
	"github.com/arthur-debert/agentsmd/pkg/paths"
	"github.com/arthur-debert/agentsmd/pkg/rules"
	"github.com/arthur-debert/agentsmd/pkg/writer"
)

// Options configure one run.
type Options struct {
	// Root overrides repository root resolution when non-empty.
	Root string

	// DryRun computes the full plan but leaves the filesystem untouched.
	DryRun bool

	// Config overrides configuration loading. nil loads it from defaults,
	// the user and repository config files, and the environment.
	Config *config.Config

	// FS is the filesystem sources are read from and rules written to.
	// nil means the host filesystem.
	FS afero.Fs

	// Probe overrides the git work tree check. nil asks git.
	Probe discovery.Prober
}

// Entry is one source file and the rule it became.
type Entry struct {
	Source     string `json:"source"`
	RelDir     string `json:"rel_dir"`
	Pattern    string `json:"pattern"`
	OutputPath string `json:"output_path"`
}

// Result describes a completed run, or the plan of one for dry runs.
type Result struct {
	Root string `json:"root"`

	// RulesDir is the owned namespace directory rules are written to.
	RulesDir string `json:"rules_dir"`

	Strategy     discovery.Strategy `json:"strategy"`
	UsedFallback bool               `json:"used_fallback"`
	DryRun       bool               `json:"dry_run"`
	Entries      []Entry            `json:"entries"`
}

// Run executes the pipeline. Steps run strictly in order and the first
// error aborts the whole run; a failure after the reset leaves a partially
// populated rules tree, which the next successful run repairs wholesale.
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("sync")
	defer logging.LogOperationStart(logger, "sync")()

	fsys := opts.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	probe := opts.Probe
	if probe == nil {
		probe = discovery.InGitWorkTree
	}

	root, usedFallback, err := paths.ResolveRoot(opts.Root)
	if err != nil {
		return nil, err
	}
	if usedFallback {
		logger.Warn().Str("root", root).Msg("No repository found, processing the working directory")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg, err = config.Load(root)
		if err != nil {
			return nil, err
		}
	}

	p, err := paths.New(root, cfg)
	if err != nil {
		return nil, err
	}

	sources, strategy, err := discovery.ListSourcesWith(p, cfg, fsys, probe)
	if err != nil {
		return nil, err
	}

	mapper := mapping.New(p, cfg)
	mappings, err := mapper.MapAll(sources)
	if err != nil {
		return nil, err
	}
	warnDuplicates(logger, mappings)

	result := &Result{
		Root:         root,
		RulesDir:     p.NamespaceDir(),
		Strategy:     strategy,
		UsedFallback: usedFallback,
		DryRun:       opts.DryRun,
		Entries:      make([]Entry, 0, len(mappings)),
	}
	for _, m := range mappings {
		result.Entries = append(result.Entries, Entry{
			Source:     m.Source,
			RelDir:     m.RelDir,
			Pattern:    m.Pattern,
			OutputPath: m.OutputPath,
		})
	}

	if opts.DryRun {
		logger.Info().Int("count", len(result.Entries)).Msg("Dry run, leaving the rules tree untouched")
		return result, nil
	}

	w := writer.New(fsys)
	if err := w.Reset(p.NamespaceDir()); err != nil {
		return nil, err
	}

	for _, m := range mappings {
		content, err := afero.ReadFile(fsys, m.Source)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrSourceRead,
				"failed to read source file").
				WithDetail("path", m.Source)
		}

		doc := &rules.Document{Patterns: []string{m.Pattern}, Body: content}
		rendered, err := doc.Render()
		if err != nil {
			return nil, err
		}

		if err := w.WriteDocument(m.OutputPath, rendered); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Int("count", len(result.Entries)).
		Str("strategy", string(strategy)).
		Str("rules", p.NamespaceDir()).
		Msg("Rules tree rebuilt")
	return result, nil
}

// warnDuplicates flags mappings that land on the same output path. Sources
// arrive sorted and are written in order, so the last one wins; distinct
// sources can only collide through filesystem aliasing (case-insensitive
// volumes, links), which is worth a warning but not an abort.
func warnDuplicates(logger zerolog.Logger, mappings []*mapping.Mapping) {
	byOutput := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if earlier, dup := byOutput[m.OutputPath]; dup {
			logger.Warn().
				Str("output", m.OutputPath).
				Str("kept", m.Source).
				Str("overwritten", earlier).
				Msg("Two sources map to the same rule file, the later one wins")
		}
		byOutput[m.OutputPath] = m.Source
	}
}
