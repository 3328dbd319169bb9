// Package storage persists the vacancy document.
// It defines the DocumentStore interface (port) and implementations backed by
// a local JSON file and by a single S3 object.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/maauso/hh-vacancies/internal/vacancy"
)

// Static errors shared by every DocumentStore implementation.
var (
	// ErrNotFound is returned when the document does not exist.
	ErrNotFound = errors.New("storage: document not found")
	// ErrParse is returned when the stored document is not a JSON array of records.
	ErrParse = errors.New("storage: document is not valid JSON")
	// ErrPermission is returned when the document cannot be read, written or removed
	// because access is denied.
	ErrPermission = errors.New("storage: permission denied")
)

// DocumentStore loads, replaces and removes the single vacancy document.
type DocumentStore interface {
	// Load reads the whole document.
	// Returns ErrNotFound if it does not exist and ErrParse if it is malformed.
	Load(ctx context.Context) (vacancy.Collection, error)

	// Save serialises records and fully replaces the document.
	// Nothing is merged with previous content.
	Save(ctx context.Context, records vacancy.Collection) error

	// Delete removes the document.
	// Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context) error
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
		return nil
	}
}
