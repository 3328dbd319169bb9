package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/maauso/hh-vacancies/internal/hh"
	"github.com/maauso/hh-vacancies/internal/storage"
	"github.com/maauso/hh-vacancies/internal/vacancy"
)

// ErrJobNotRunnable is returned when ProcessExistingJob is called on a job
// that is no longer IN_QUEUE.
var ErrJobNotRunnable = errors.New("job is not in queue")

// HarvestResult describes one completed harvest.
type HarvestResult struct {
	// Keyword is the normalised search text.
	Keyword string
	// Records is the number of records written to the document.
	Records int
	// Duration covers fetching and saving.
	Duration time.Duration
	// Shared is true when the result came from a harvest started by another caller.
	Shared bool
}

// HarvestService fetches every page of vacancies for a keyword and replaces
// the stored document with them. Concurrent harvests of the same keyword
// share a single fetch.
type HarvestService struct {
	repo    Repository
	fetcher hh.Fetcher
	store   storage.DocumentStore
	logger  *slog.Logger
	group   singleflight.Group
}

// NewHarvestService creates a new HarvestService.
func NewHarvestService(repo Repository, fetcher hh.Fetcher, store storage.DocumentStore, logger *slog.Logger) *HarvestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HarvestService{
		repo:    repo,
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
}

// Harvest fetches all pages for keyword and saves them, replacing the
// document. Nothing is saved when the fetch fails.
// A caller that joins an in-flight harvest for the same keyword receives
// that harvest's result; the first caller's context governs it.
func (s *HarvestService) Harvest(ctx context.Context, keyword string) (HarvestResult, error) {
	keyword = hh.NormalizeKeyword(keyword)

	v, err, shared := s.group.Do(keyword, func() (any, error) {
		return s.harvest(ctx, keyword)
	})
	if err != nil {
		return HarvestResult{}, err
	}

	result := v.(HarvestResult)
	result.Shared = shared
	return result, nil
}

func (s *HarvestService) harvest(ctx context.Context, keyword string) (HarvestResult, error) {
	start := time.Now()
	s.logger.Info("harvest started", slog.String("keyword", keyword))

	records, err := s.fetcher.LoadVacancies(ctx, keyword)
	if err != nil {
		s.logger.Error("failed to fetch vacancies",
			slog.String("keyword", keyword),
			slog.String("error", err.Error()),
		)
		return HarvestResult{}, fmt.Errorf("fetch vacancies: %w", err)
	}

	if err := s.store.Save(ctx, records); err != nil {
		s.logger.Error("failed to save vacancies",
			slog.String("keyword", keyword),
			slog.Int("records", len(records)),
			slog.String("error", err.Error()),
		)
		return HarvestResult{}, fmt.Errorf("save vacancies: %w", err)
	}

	result := HarvestResult{
		Keyword:  keyword,
		Records:  len(records),
		Duration: time.Since(start),
	}

	s.logger.Info("harvest completed",
		slog.String("keyword", keyword),
		slog.Int("records", result.Records),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// CreateJob creates a new IN_QUEUE job for keyword and persists it.
func (s *HarvestService) CreateJob(ctx context.Context, keyword string) (*Job, error) {
	job := New(hh.NormalizeKeyword(keyword))

	if err := s.repo.Save(ctx, job); err != nil {
		s.logger.Error("failed to save job",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("job created",
		slog.String("job_id", job.ID),
		slog.String("keyword", job.Keyword),
	)
	return job, nil
}

// ProcessExistingJob runs the harvest for a job created by CreateJob and
// records the outcome on the job. The harvest error, if any, is returned
// after the job has been marked FAILED.
func (s *HarvestService) ProcessExistingJob(ctx context.Context, jobID string) (*Job, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := job.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s is %s", ErrJobNotRunnable, jobID, job.GetStatus())
	}
	if err := s.repo.Save(ctx, job); err != nil {
		return nil, err
	}

	result, harvestErr := s.Harvest(ctx, job.Keyword)
	if harvestErr != nil {
		// A shared harvest can fail with another caller's cancellation;
		// only this job's own context makes it CANCELLED.
		if errors.Is(harvestErr, context.Canceled) && ctx.Err() != nil {
			_ = job.Cancel()
		} else {
			_ = job.Fail(harvestErr.Error())
		}
	} else {
		_ = job.Complete(result.Records)
	}

	// Record the outcome even if the caller's context is already done.
	if err := s.repo.Save(context.WithoutCancel(ctx), job); err != nil {
		return nil, err
	}

	return job, harvestErr
}

// GetJob retrieves a job by ID.
func (s *HarvestService) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.FindByID(ctx, id)
}

// ListJobs returns every known job, oldest first.
func (s *HarvestService) ListJobs(ctx context.Context) ([]*Job, error) {
	return s.repo.List(ctx)
}

// Vacancies returns the stored document.
func (s *HarvestService) Vacancies(ctx context.Context) (vacancy.Collection, error) {
	return s.store.Load(ctx)
}

// DeleteVacancies removes the stored document.
func (s *HarvestService) DeleteVacancies(ctx context.Context) error {
	if err := s.store.Delete(ctx); err != nil {
		return err
	}
	s.logger.Info("vacancy document deleted")
	return nil
}
