package rules

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/logging"
)

// FileInfo describes one rendered rule on disk.
type FileInfo struct {
	// Path is the absolute path of the rule file.
	Path string `json:"path"`
	// RelPath is the slash-separated path relative to the rules tree.
	RelPath string `json:"rel_path"`
	// Patterns are the globs the rule's header declares.
	Patterns []string `json:"patterns"`
}

// ScanDir parses every rule file under dir, sorted by relative path. A
// missing dir is an empty listing, not an error: listing before the first
// run is a legitimate question. Files that no longer parse (hand-edited,
// typically) are skipped with a warning rather than failing the listing.
func ScanDir(fsys afero.Fs, dir string) ([]FileInfo, error) {
	exists, err := afero.DirExists(fsys, dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess,
			"cannot access the rules tree").
			WithDetail("path", dir)
	}
	if !exists {
		return nil, nil
	}

	logger := logging.GetLogger("rules")
	var infos []FileInfo
	walkErr := afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		content, err := afero.ReadFile(fsys, path)
		if err != nil {
			return errors.Wrap(err, errors.ErrFileAccess,
				"cannot read rule file").
				WithDetail("path", path)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		doc, err := Parse(content)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping unparseable rule file")
			return nil
		}
		infos = append(infos, FileInfo{
			Path:     path,
			RelPath:  filepath.ToSlash(rel),
			Patterns: doc.Patterns,
		})
		return nil
	})
	if walkErr != nil {
		if errors.GetErrorCode(walkErr) != errors.ErrUnknown {
			return nil, walkErr
		}
		return nil, errors.Wrap(walkErr, errors.ErrFileAccess,
			"failed to scan the rules tree").
			WithDetail("path", dir)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].RelPath < infos[j].RelPath })
	return infos, nil
}
