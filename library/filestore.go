package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps each collection in its own JSON file under dir.
type FileBackend struct {
	dir string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend stores collections under dir. The directory is created on
// first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Path returns the file that holds collection.
func (f *FileBackend) Path(collection string) string {
	return filepath.Join(f.dir, collection+".json")
}

func (f *FileBackend) Read(collection string) ([]byte, error) {
	data, err := os.ReadFile(f.Path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoCollection
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	return data, nil
}

// Write replaces the collection file atomically via a temp file and rename,
// so a failed write leaves the previous contents intact.
func (f *FileBackend) Write(collection string, payload []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	path := f.Path(collection)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, payload, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }
