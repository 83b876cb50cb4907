// Package rules renders and parses rule documents. A rule document is a
// frontmatter header declaring the globs the rule applies to, one blank
// line, and the source content byte for byte:
//
//	---
//	globs:
//	  - docs/**/*
//	---
//
//	# Docs
//
// The header carries exactly one key so consuming hosts can read it
// without knowing anything else about the format.
package rules

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/agentsmd/pkg/errors"
)

const delimiter = "---"

// Document is one rule: the globs scoping where it applies and the
// verbatim body it carries.
type Document struct {
	Patterns []string
	Body     []byte
}

// header is the YAML shape of the frontmatter block.
type header struct {
	Globs []string `yaml:"globs"`
}

// Render produces the exact bytes of the rule file. The body goes out
// untouched: no reflow, no added trailing newline.
func (d *Document) Render() ([]byte, error) {
	if len(d.Patterns) == 0 {
		return nil, errors.New(errors.ErrRuleRender, "a rule needs at least one pattern")
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(header{Globs: d.Patterns}); err != nil {
		return nil, errors.Wrap(err, errors.ErrRuleRender, "failed to encode rule header")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrRuleRender, "failed to finish rule header")
	}

	buf.WriteString(delimiter + "\n")
	buf.WriteString("\n")
	buf.Write(d.Body)
	return buf.Bytes(), nil
}

// Parse is the inverse of Render. It accepts any YAML quoting style in
// the header, so documents edited by hand still read back.
func Parse(content []byte) (*Document, error) {
	open := []byte(delimiter + "\n")
	rest, found := bytes.CutPrefix(content, open)
	if !found {
		return nil, errors.New(errors.ErrRuleParse, "rule file does not start with a header block")
	}
	if bytes.HasPrefix(rest, open) {
		return nil, errors.New(errors.ErrRuleParse, "rule header declares no globs")
	}

	marker := []byte("\n" + delimiter + "\n")
	end := bytes.Index(rest, marker)
	if end < 0 {
		return nil, errors.New(errors.ErrRuleParse, "unterminated rule header")
	}
	headerBytes := rest[:end+1]
	after := rest[end+len(marker):]

	var h header
	if err := yaml.Unmarshal(headerBytes, &h); err != nil {
		return nil, errors.Wrap(err, errors.ErrRuleParse, "malformed rule header")
	}
	if len(h.Globs) == 0 {
		return nil, errors.New(errors.ErrRuleParse, "rule header declares no globs")
	}

	body, found := bytes.CutPrefix(after, []byte("\n"))
	if !found {
		return nil, errors.New(errors.ErrRuleParse, "missing blank line after rule header")
	}
	return &Document{Patterns: h.Globs, Body: body}, nil
}
