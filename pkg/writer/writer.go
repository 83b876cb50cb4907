// Package writer materializes rendered rules on disk. It owns the two
// destructive steps of a run: clearing the namespace directory and writing
// the new tree below it.
package writer

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/agentsmd/pkg/errors"
	"github.com/arthur-debert/agentsmd/pkg/logging"
)

type Writer struct {
	fs     afero.Fs
	logger zerolog.Logger
}

func New(fsys afero.Fs) *Writer {
	return &Writer{
		fs:     fsys,
		logger: logging.GetLogger("writer"),
	}
}

// Reset removes the namespace directory and recreates it empty. Running
// before any write is what guarantees rules for deleted sources do not
// linger from earlier runs. Only the namespace directory is touched;
// sibling namespaces under the same rules directory are not ours.
func (w *Writer) Reset(namespaceDir string) error {
	if err := w.fs.RemoveAll(namespaceDir); err != nil {
		return errors.Wrap(err, errors.ErrDestClear,
			"failed to clear the rules tree").
			WithDetail("path", namespaceDir)
	}
	if err := w.fs.MkdirAll(namespaceDir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDestCreate,
			"failed to create the rules tree").
			WithDetail("path", namespaceDir)
	}
	w.logger.Debug().Str("path", namespaceDir).Msg("Reset rules tree")
	return nil
}

// WriteDocument writes rendered bytes at path, creating parent
// directories as needed. An existing file at path is overwritten whole.
func (w *Writer) WriteDocument(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate,
			"failed to create output directory").
			WithDetail("path", dir)
	}
	if err := afero.WriteFile(w.fs, path, content, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite,
			"failed to write rule file").
			WithDetail("path", path)
	}
	w.logger.Trace().Str("path", path).Int("bytes", len(content)).Msg("Wrote rule file")
	return nil
}
