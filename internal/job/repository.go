package job

import (
	"context"
	"errors"
)

// ErrJobNotFound is returned when no job has the requested ID.
var ErrJobNotFound = errors.New("job not found")

// Repository stores harvest jobs. Implementations hand out copies, so a
// returned job can be changed without affecting the stored one until it is
// saved again.
type Repository interface {
	// Save inserts the job or replaces the stored job with the same ID.
	Save(ctx context.Context, job *Job) error

	// FindByID returns the job with id, or ErrJobNotFound.
	FindByID(ctx context.Context, id string) (*Job, error)

	// List returns every job ordered by creation time, then ID.
	List(ctx context.Context) ([]*Job, error)
}
