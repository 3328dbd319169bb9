package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/maauso/hh-vacancies/internal/vacancy"
)

// DefaultDocumentPath is where the vacancy document lives when no path is
// configured. It is resolved against the working directory.
const DefaultDocumentPath = "data/vacancies.json"

// Compile-time check that JSONFileStore implements DocumentStore.
var _ DocumentStore = (*JSONFileStore)(nil)

// JSONFileStore implements DocumentStore with one JSON file on local disk.
// Operations on the same value are serialised; there is no cross-process
// locking and writes are not atomic, so a crash mid-write can leave a
// truncated file.
type JSONFileStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONFileStore creates a store for the file at path.
// If path is empty, DefaultDocumentPath is used. Relative paths are made
// absolute against the working directory and the parent directory is created
// if it doesn't exist.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if path == "" {
		path = DefaultDocumentPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", classifyFSError(err))
	}

	return &JSONFileStore{path: abs}, nil
}

// Path returns the absolute path of the document.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Load reads and parses the document.
func (s *JSONFileStore) Load(ctx context.Context) (vacancy.Collection, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path) // #nosec G304 - path is fixed at construction
	if err != nil {
		return nil, fmt.Errorf("read document: %w", classifyFSError(err))
	}

	return Decode(data)
}

// Save overwrites the document with records.
func (s *JSONFileStore) Save(ctx context.Context, records vacancy.Collection) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	data, err := Encode(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, data, 0644); err != nil { // #nosec G306 - document is not secret
		return fmt.Errorf("write document: %w", classifyFSError(err))
	}

	return nil
}

// Delete removes the document.
func (s *JSONFileStore) Delete(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("remove document: %w", classifyFSError(err))
	}

	return nil
}

// classifyFSError tags filesystem errors with the package sentinels while
// keeping the original error in the chain.
func classifyFSError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermission, err)
	default:
		return err
	}
}
