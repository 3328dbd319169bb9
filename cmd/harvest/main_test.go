package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WritesDocument(t *testing.T) {
	var calls atomic.Int32
	listing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "developer", r.URL.Query().Get("text"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"1"}]}`))
	}))
	t.Cleanup(listing.Close)

	t.Setenv("HH_BASE_URL", listing.URL)
	t.Setenv("HH_PAGE_LIMIT", "3")
	t.Setenv("HARVEST_SCHEDULE", "")
	t.Setenv("LOG_LEVEL", "error")

	out := filepath.Join(t.TempDir(), "vacancies.json")
	var stdout bytes.Buffer

	err := run([]string{"-keyword", "developer", "-out", out}, &stdout)
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "3 vacancies saved for \"developer\"\n", stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"},{"id":"1"},{"id":"1"}]`, string(data))
}

func TestRun_FetchFailure(t *testing.T) {
	listing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(listing.Close)

	t.Setenv("HH_BASE_URL", listing.URL)
	t.Setenv("HARVEST_SCHEDULE", "")
	t.Setenv("LOG_LEVEL", "error")

	out := filepath.Join(t.TempDir(), "vacancies.json")

	err := run([]string{"-keyword", "developer", "-out", out}, &bytes.Buffer{})
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestRun_BadFlag(t *testing.T) {
	err := run([]string{"-nope"}, &bytes.Buffer{})
	require.Error(t, err)
}
