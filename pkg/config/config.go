// Package config loads and validates agentsmd configuration.
//
// Configuration is layered, lowest precedence first: compiled-in defaults,
// the embedded defaults file, the user config under XDG_CONFIG_HOME, the
// repository config at the root, and AGENTSMD_* environment variables.
package config

import (
	"path"
	"strings"

	"github.com/arthur-debert/agentsmd/pkg/errors"
)

// Built-in defaults. The embedded defaults file carries the same values;
// these exist so a broken embed cannot leave the binary without a working
// configuration.
const (
	DefaultFilename  = "AGENTS.md"
	DefaultRulesDir  = ".agents/rules"
	DefaultNamespace = "agentsmd"
)

// Source configures which files are collected from the repository.
type Source struct {
	Filename string `koanf:"filename" toml:"filename"`
}

// Rules configures where rule files are published.
type Rules struct {
	Dir       string `koanf:"dir" toml:"dir"`
	Namespace string `koanf:"namespace" toml:"namespace"`
}

// Config is the complete agentsmd configuration.
type Config struct {
	Source Source `koanf:"source" toml:"source"`
	Rules  Rules  `koanf:"rules" toml:"rules"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: Source{Filename: DefaultFilename},
		Rules:  Rules{Dir: DefaultRulesDir, Namespace: DefaultNamespace},
	}
}

// NamespaceRel returns the slash-separated path of the owned output
// directory relative to the repository root, e.g. ".agents/rules/agentsmd".
func (c *Config) NamespaceRel() string {
	return path.Join(c.Rules.Dir, c.Rules.Namespace)
}

// ExcludeRoot returns the first segment of the rules directory. Everything
// under it is excluded from source enumeration so published output can never
// be re-collected as input.
func (c *Config) ExcludeRoot() string {
	dir := strings.TrimPrefix(c.Rules.Dir, "./")
	if i := strings.IndexByte(dir, '/'); i >= 0 {
		return dir[:i]
	}
	return dir
}

// Validate checks the configuration for values the pipeline cannot work
// with. It returns an AgentsmdError with code CONFIG_INVALID on failure.
func (c *Config) Validate() error {
	if c.Source.Filename == "" {
		return errors.New(errors.ErrConfigValid, "source.filename must not be empty")
	}
	if strings.ContainsAny(c.Source.Filename, `/\`) {
		return errors.Newf(errors.ErrConfigValid,
			"source.filename must be a bare file name, got %q", c.Source.Filename)
	}

	dir := c.Rules.Dir
	if dir == "" || dir == "." {
		return errors.New(errors.ErrConfigValid, "rules.dir must name a directory inside the repository")
	}
	if path.IsAbs(dir) || strings.Contains(dir, `\`) {
		return errors.Newf(errors.ErrConfigValid,
			"rules.dir must be a relative slash-separated path, got %q", dir)
	}
	for _, seg := range strings.Split(dir, "/") {
		if seg == ".." {
			return errors.Newf(errors.ErrConfigValid,
				"rules.dir must not escape the repository root, got %q", dir)
		}
	}

	ns := c.Rules.Namespace
	if ns == "" || ns == "." || ns == ".." || strings.ContainsAny(ns, `/\`) {
		return errors.Newf(errors.ErrConfigValid,
			"rules.namespace must be a single directory name, got %q", ns)
	}

	return nil
}
