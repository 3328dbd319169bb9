// Package server provides the HTTP API for harvesting vacancies.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import "time"

// CreateHarvestRequest is the HTTP request body for starting a harvest.
type CreateHarvestRequest struct {
	// Keyword is the search text sent to the listing endpoint.
	Keyword string `json:"keyword" validate:"required,max=200"`
}

// CreateHarvestResponse is the HTTP response after queueing a harvest.
type CreateHarvestResponse struct {
	// ID is the unique identifier for the created job.
	ID string `json:"id"`
	// Status is the initial job status.
	Status string `json:"status"`
}

// JobResponse is the HTTP response for a harvest job.
type JobResponse struct {
	ID      string `json:"id"`
	Keyword string `json:"keyword"`
	Status  string `json:"status"`
	// Records is the number of records saved, set once the job completes.
	Records int `json:"records"`
	// Error contains any error message if the job failed.
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobListResponse wraps every known job, oldest first.
type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
