// Package mapping derives the destination rule for each source file: the
// directory-scoped glob that limits where the rule applies, and the path
// the rendered rule lands on under the rules tree.
package mapping

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/agentsmd/pkg/config"
	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/logging"
	"github.com/arthur-debert/agentsmd/pkg/paths"
)

// globMeta are the characters doublestar assigns meaning to. A directory
// name containing one still maps, but the resulting pattern matches per
// glob semantics rather than literally.
const globMeta = `*?[]{}\`

// Mapping ties a source file to its destination rule.
type Mapping struct {
	// Source is the absolute, normalized path of the convention file.
	Source string
	// RelDir is the slash-separated directory of the source relative to
	// the repository root, "." for files at the root itself.
	RelDir string
	// Pattern is the glob scoping the rule to files below RelDir.
	Pattern string
	// OutputPath is the absolute destination path under the rules tree.
	OutputPath string
}

// Mapper maps source files into the rules tree for one repository.
type Mapper struct {
	paths  paths.Paths
	cfg    *config.Config
	logger zerolog.Logger
}

func New(p paths.Paths, cfg *config.Config) *Mapper {
	return &Mapper{
		paths:  p,
		cfg:    cfg,
		logger: logging.GetLogger("mapping"),
	}
}

// Map derives the Mapping for one source file. Files under the rules tree
// are output, never source, and are rejected here even though enumeration
// already filters them.
func (m *Mapper) Map(source string) (*Mapping, error) {
	normalized, err := m.paths.NormalizePath(source)
	if err != nil {
		return nil, err
	}

	inNamespace, err := m.paths.IsInNamespace(normalized)
	if err != nil {
		return nil, err
	}
	if inNamespace {
		return nil, errors.New(errors.ErrMapping,
			"refusing to map a file inside the rules tree").
			WithDetail("path", normalized)
	}

	inRepo, err := m.paths.IsInRepository(normalized)
	if err != nil {
		return nil, err
	}
	if !inRepo {
		return nil, errors.New(errors.ErrSourceOutsideRoot,
			"source file is outside the repository root").
			WithDetail("path", normalized).
			WithDetail("root", m.paths.Root())
	}

	rel, err := filepath.Rel(m.paths.Root(), normalized)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrSourceOutsideRoot,
			"cannot express source relative to the repository root").
			WithDetail("path", normalized)
	}
	relDir := path.Dir(filepath.ToSlash(rel))

	pattern := PatternFor(relDir)
	if relDir != "." && strings.ContainsAny(relDir, globMeta) {
		m.logger.Warn().
			Str("dir", relDir).
			Str("pattern", pattern).
			Msg("Directory name contains glob metacharacters, pattern will not match it literally")
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.New(errors.ErrPatternInvalid,
			"derived pattern is not a valid glob").
			WithDetail("pattern", pattern).
			WithDetail("dir", relDir)
	}

	mapping := &Mapping{
		Source:     normalized,
		RelDir:     relDir,
		Pattern:    pattern,
		OutputPath: m.paths.OutputPath(relDir, m.cfg.Source.Filename),
	}
	m.logger.Trace().
		Str("source", mapping.Source).
		Str("pattern", mapping.Pattern).
		Str("output", mapping.OutputPath).
		Msg("Mapped source file")
	return mapping, nil
}

// MapAll maps every source, failing on the first bad one. Order follows
// the input order.
func (m *Mapper) MapAll(sources []string) ([]*Mapping, error) {
	mappings := make([]*Mapping, 0, len(sources))
	for _, source := range sources {
		mapping, err := m.Map(source)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, mapping)
	}
	m.logger.Debug().Int("count", len(mappings)).Msg("Mapped source files")
	return mappings, nil
}

// PatternFor returns the glob that scopes a rule to the files below a
// directory: "**/*" at the root, "<dir>/**/*" anywhere else.
func PatternFor(relDir string) string {
	if relDir == "" || relDir == "." {
		return "**/*"
	}
	return relDir + "/**/*"
}
