// Package bootstrap provides dependency initialization for the vacancy harvester.
package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/maauso/hh-vacancies/internal/config"
	"github.com/maauso/hh-vacancies/internal/hh"
	"github.com/maauso/hh-vacancies/internal/job"
	"github.com/maauso/hh-vacancies/internal/scheduler"
	"github.com/maauso/hh-vacancies/internal/storage"
)

// Dependencies holds all initialized dependencies for the server and CLI.
type Dependencies struct {
	HarvestService *job.HarvestService
	Store          storage.DocumentStore
	// Scheduler is nil unless HARVEST_SCHEDULE is set.
	Scheduler *scheduler.Scheduler
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	fetcher, err := initFetcher(cfg)
	if err != nil {
		return nil, err
	}

	svc := job.NewHarvestService(job.NewMemoryRepository(), fetcher, store, logger)

	deps := &Dependencies{
		HarvestService: svc,
		Store:          store,
	}

	if cfg.SchedulerEnabled() {
		sched, err := scheduler.New(cfg.HarvestSchedule, cfg.HarvestKeyword, svc, logger)
		if err != nil {
			return nil, fmt.Errorf("create scheduler: %w", err)
		}
		deps.Scheduler = sched
	}

	return deps, nil
}

// initFetcher creates the listing client. A zero timeout means requests
// are bounded only by their context.
func initFetcher(cfg *config.Config) (*hh.HTTPClient, error) {
	client, err := hh.NewClient(
		hh.WithBaseURL(cfg.HHBaseURL),
		hh.WithUserAgent(cfg.HHUserAgent),
		hh.WithPerPage(cfg.HHPerPage),
		hh.WithPageLimit(cfg.HHPageLimit),
		hh.WithHTTPClient(&http.Client{Timeout: cfg.HHRequestTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("create listing client: %w", err)
	}
	return client, nil
}

// initStore creates the appropriate document store based on configuration.
func initStore(cfg *config.Config, logger *slog.Logger) (storage.DocumentStore, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Key:             cfg.S3Key,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3DocumentStore(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 store: %w", err)
		}
		logger.Info("S3 document store configured",
			slog.String("location", s3Store.Location()),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	path, err := cfg.DocumentPath()
	if err != nil {
		return nil, err
	}
	fileStore, err := storage.NewJSONFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("create file store: %w", err)
	}
	logger.Info("file document store configured",
		slog.String("path", fileStore.Path()),
	)
	return fileStore, nil
}
