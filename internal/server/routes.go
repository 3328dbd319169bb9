package server

import (
	"log/slog"
	"net/http"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins lists origins that receive CORS headers. "*" allows any.
	AllowedOrigins []string
}

// DefaultConfig allows any origin.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

type route struct {
	pattern string
	handler http.HandlerFunc
}

func (h *Handlers) routes() []route {
	return []route{
		{"GET /health", h.Health},
		{"POST /harvests", h.CreateHarvest},
		{"GET /harvests", h.ListHarvests},
		{"GET /harvests/{id}", h.GetHarvest},
		{"GET /vacancies", h.GetVacancies},
		{"DELETE /vacancies", h.DeleteVacancies},
	}
}

// NewRouter serves the harvest and vacancy routes behind recovery, request
// logging and CORS, in that order. An empty origin list falls back to
// DefaultConfig.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	if len(cfg.AllowedOrigins) == 0 {
		cfg = DefaultConfig()
	}

	mux := http.NewServeMux()
	for _, rt := range h.routes() {
		mux.HandleFunc(rt.pattern, rt.handler)
	}

	return ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)(mux)
}
