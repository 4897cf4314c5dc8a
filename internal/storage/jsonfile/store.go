// Package jsonfile keeps JSON documents in a directory and replaces them atomically.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store reads and writes named documents under Dir.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir. The directory is created on first use.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Path resolves a document name inside the store directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Read decodes the named document into v. It reports false, leaving v
// untouched, when the document does not exist yet.
func (s *Store) Read(name string, v any) (bool, error) {
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("jsonfile: read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("jsonfile: decode %s: %w", name, err)
	}
	return true, nil
}

// Write encodes v and replaces the named document. Readers see either the
// old or the new content: the data goes to a temp file that is renamed over
// the target.
func (s *Store) Write(name string, v any) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("jsonfile: create dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.Dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonfile: sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, s.Path(name)); err != nil {
		return fmt.Errorf("jsonfile: replace %s: %w", name, err)
	}
	return nil
}
