// Package bundle reads import files and writes export files.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/runoshun/taskcal/internal/domain"
	"github.com/runoshun/taskcal/internal/importer"
)

// Files performs import and export file I/O on a filesystem.
type Files struct {
	fs afero.Fs
}

// New creates Files on fs. A nil fs uses the OS filesystem.
func New(fs afero.Fs) *Files {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Files{fs: fs}
}

// FormatForPath detects the format of path from its extension.
func FormatForPath(path string) (importer.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return importer.FormatJSON, nil
	case ".yaml", ".yml":
		return importer.FormatYAML, nil
	case ".csv", ".txt":
		return importer.FormatCSV, nil
	case ".tsv":
		return importer.FormatTSV, nil
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", domain.ErrInvalidFormat, ext)
	}
}

// ReadImport reads path and returns its content and detected format.
func (f *Files) ReadImport(path string) ([]byte, importer.Format, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, "", err
	}
	data, err := f.Read(path)
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}

// Read returns the content of path without detecting its format.
func (f *Files) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return data, nil
}

// WriteExport writes data to path, creating parent directories.
func (f *Files) WriteExport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := afero.WriteFile(f.fs, path, data, os.FileMode(0o600)); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
