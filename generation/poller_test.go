package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autoreel/internal/models"
	"autoreel/shared/config"
)

// newPollerFixture serves the given status responses in order, repeating
// the last one, and returns a poller whose sleeps are recorded instead
// of slept.
func newPollerFixture(t *testing.T, responses []map[string]any) (*Poller, *models.GenerationJob, *int, *[]time.Duration) {
	t.Helper()

	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := polls
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		polls++
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(responses[idx]); err != nil {
			t.Errorf("Failed to encode response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client, err := NewVideoClient(&config.VideoGenConfig{APIKey: "test-key", Endpoint: server.URL})
	if err != nil {
		t.Fatalf("Failed to create video client: %v", err)
	}

	var sleeps []time.Duration
	poller := NewPoller(client, 10)
	poller.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	job := &models.GenerationJob{
		TrackID:    "track-1",
		Prompt:     "a lighthouse at dawn",
		Phase:      models.JobProcessing,
		ETASeconds: 42,
		FetchURL:   server.URL + "/fetch/track-1",
	}

	return poller, job, &polls, &sleeps
}

func TestWaitSucceedsAfterProcessing(t *testing.T) {
	poller, job, polls, sleeps := newPollerFixture(t, []map[string]any{
		{"status": "processing", "eta": 7},
		{"status": "success", "output": []string{"http://backend/out/done.mp4"}},
	})

	url, err := poller.Wait(context.Background(), job)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	if url != "http://backend/out/done.mp4" {
		t.Errorf("URL = %s, want http://backend/out/done.mp4", url)
	}
	if *polls != 2 {
		t.Errorf("Backend polled %d times, want 2", *polls)
	}
	if job.Phase != models.JobSucceeded {
		t.Errorf("Phase = %s, want %s", job.Phase, models.JobSucceeded)
	}
	if job.MediaURL != url {
		t.Errorf("MediaURL = %s, want %s", job.MediaURL, url)
	}
	if job.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", job.Attempts)
	}

	// Initial wait uses the job's ETA, then the backend's refreshed one.
	if len(*sleeps) != 2 {
		t.Fatalf("Slept %d times, want 2", len(*sleeps))
	}
	if (*sleeps)[0] != 42*time.Second {
		t.Errorf("First sleep = %v, want 42s", (*sleeps)[0])
	}
	if (*sleeps)[1] != 7*time.Second {
		t.Errorf("Second sleep = %v, want 7s", (*sleeps)[1])
	}
}

func TestWaitDefaultsMissingETA(t *testing.T) {
	poller, job, _, sleeps := newPollerFixture(t, []map[string]any{
		{"status": "processing"},
		{"status": "success", "output": []string{"http://backend/out/done.mp4"}},
	})

	if _, err := poller.Wait(context.Background(), job); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	// The backend reported no ETA, so the poller waits five seconds.
	if (*sleeps)[1] != 5*time.Second {
		t.Errorf("Sleep after missing ETA = %v, want 5s", (*sleeps)[1])
	}
	if job.ETASeconds != 5 {
		t.Errorf("Job ETA = %g, want 5", job.ETASeconds)
	}
}

func TestWaitGivesUpAfterMaxAttempts(t *testing.T) {
	poller, job, polls, _ := newPollerFixture(t, []map[string]any{
		{"status": "processing", "eta": 1},
	})

	_, err := poller.Wait(context.Background(), job)

	if !errors.Is(err, ErrStillProcessing) {
		t.Fatalf("Expected ErrStillProcessing, got %v", err)
	}
	if *polls != 10 {
		t.Errorf("Backend polled %d times, want 10", *polls)
	}
	// Still processing is not a failure; the job may yet complete.
	if job.Phase != models.JobProcessing {
		t.Errorf("Phase = %s, want %s", job.Phase, models.JobProcessing)
	}
}

func TestWaitStopsOnBackendError(t *testing.T) {
	poller, job, polls, _ := newPollerFixture(t, []map[string]any{
		{"status": "error", "message": "generation failed"},
	})

	_, err := poller.Wait(context.Background(), job)

	var bErr *BackendError
	if !errors.As(err, &bErr) {
		t.Fatalf("Expected *BackendError, got %v", err)
	}
	if bErr.Message != "generation failed" {
		t.Errorf("Message = %s, want generation failed", bErr.Message)
	}
	if *polls != 1 {
		t.Errorf("Backend polled %d times, want 1", *polls)
	}
	if job.Phase != models.JobFailed {
		t.Errorf("Phase = %s, want %s", job.Phase, models.JobFailed)
	}
}

func TestWaitStopsOnTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client, err := NewVideoClient(&config.VideoGenConfig{APIKey: "test-key", Endpoint: server.URL})
	if err != nil {
		t.Fatalf("Failed to create video client: %v", err)
	}

	poller := NewPoller(client, 10)
	poller.sleep = func(ctx context.Context, d time.Duration) error { return nil }

	job := &models.GenerationJob{
		TrackID:  "track-1",
		Phase:    models.JobProcessing,
		FetchURL: server.URL + "/fetch/track-1",
	}

	_, err = poller.Wait(context.Background(), job)
	if err == nil {
		t.Fatal("Expected error when the status endpoint fails")
	}
	if errors.Is(err, ErrStillProcessing) {
		t.Error("Transport errors must not read as still-processing")
	}
	if job.Phase != models.JobFailed {
		t.Errorf("Phase = %s, want %s", job.Phase, models.JobFailed)
	}
}

func TestWaitShortCircuitsFinishedJob(t *testing.T) {
	client, err := NewVideoClient(&config.VideoGenConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("Failed to create video client: %v", err)
	}

	poller := NewPoller(client, 10)
	job := &models.GenerationJob{
		Phase:    models.JobSucceeded,
		MediaURL: "http://backend/out/already.mp4",
	}

	url, err := poller.Wait(context.Background(), job)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if url != "http://backend/out/already.mp4" {
		t.Errorf("URL = %s, want the job's media URL", url)
	}
}

func TestWaitRequiresFetchURL(t *testing.T) {
	client, err := NewVideoClient(&config.VideoGenConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("Failed to create video client: %v", err)
	}

	poller := NewPoller(client, 10)

	if _, err := poller.Wait(context.Background(), &models.GenerationJob{Phase: models.JobProcessing}); err == nil {
		t.Error("Expected error for a job without a fetch URL")
	}
	if _, err := poller.Wait(context.Background(), nil); err == nil {
		t.Error("Expected error for a nil job")
	}
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	poller, job, _, _ := newPollerFixture(t, []map[string]any{
		{"status": "processing", "eta": 1},
	})
	poller.sleep = sleepContext

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := poller.Wait(ctx, job)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
