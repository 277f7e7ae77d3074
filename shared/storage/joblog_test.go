package storage

import (
	"testing"
	"time"

	"autoreel/internal/models"
)

func TestJobLogRecordAndGet(t *testing.T) {
	jl, err := NewJobLog(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Failed to create job log: %v", err)
	}

	job := models.GenerationJob{
		TrackID:  "track-1",
		Prompt:   "a lighthouse at dawn",
		Phase:    models.JobProcessing,
		FetchURL: "http://backend/fetch/1",
	}
	if err := jl.Record(job); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, ok := jl.Get("track-1")
	if !ok {
		t.Fatal("Job not found after recording")
	}
	if got.Prompt != job.Prompt || got.Phase != job.Phase {
		t.Errorf("Got %+v, want prompt and phase preserved", got)
	}
	if got.SubmittedAt.IsZero() {
		t.Error("SubmittedAt was not defaulted")
	}
}

func TestJobLogAssignsTrackID(t *testing.T) {
	jl, err := NewJobLog(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Failed to create job log: %v", err)
	}

	if err := jl.Record(models.GenerationJob{Prompt: "no id"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	jobs := jl.Recent(0)
	if len(jobs) != 1 {
		t.Fatalf("Got %d jobs, want 1", len(jobs))
	}
	if jobs[0].TrackID == "" {
		t.Error("Track ID was not assigned")
	}
}

func TestJobLogUpsertsByTrackID(t *testing.T) {
	jl, err := NewJobLog(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Failed to create job log: %v", err)
	}

	if err := jl.Record(models.GenerationJob{TrackID: "track-1", Phase: models.JobProcessing}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := jl.Record(models.GenerationJob{TrackID: "track-1", Phase: models.JobSucceeded, MediaURL: "http://x/v.mp4"}); err != nil {
		t.Fatalf("Second record failed: %v", err)
	}

	if jl.Count() != 1 {
		t.Errorf("Count = %d, want 1 after re-recording the same job", jl.Count())
	}

	got, _ := jl.Get("track-1")
	if got.Phase != models.JobSucceeded || got.MediaURL != "http://x/v.mp4" {
		t.Errorf("Job was not updated, got %+v", got)
	}
}

func TestJobLogPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	jl, err := NewJobLog(dir, 0)
	if err != nil {
		t.Fatalf("Failed to create job log: %v", err)
	}
	if err := jl.Record(models.GenerationJob{TrackID: "persisted", Phase: models.JobSucceeded}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	reopened, err := NewJobLog(dir, 0)
	if err != nil {
		t.Fatalf("Failed to reopen job log: %v", err)
	}

	if _, ok := reopened.Get("persisted"); !ok {
		t.Error("Job lost after reopening the log")
	}
}

func TestJobLogRecentOrder(t *testing.T) {
	jl, err := NewJobLog(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Failed to create job log: %v", err)
	}

	base := time.Now().UTC()
	for i, id := range []string{"oldest", "middle", "newest"} {
		job := models.GenerationJob{
			TrackID:     id,
			SubmittedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := jl.Record(job); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	jobs := jl.Recent(2)
	if len(jobs) != 2 {
		t.Fatalf("Recent(2) returned %d jobs, want 2", len(jobs))
	}
	if jobs[0].TrackID != "newest" || jobs[1].TrackID != "middle" {
		t.Errorf("Recent order = [%s, %s], want [newest, middle]", jobs[0].TrackID, jobs[1].TrackID)
	}
}

func TestJobLogPrunesOldJobs(t *testing.T) {
	dir := t.TempDir()

	jl, err := NewJobLog(dir, 0)
	if err != nil {
		t.Fatalf("Failed to create job log: %v", err)
	}

	stale := models.GenerationJob{
		TrackID:     "stale",
		SubmittedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	fresh := models.GenerationJob{
		TrackID:     "fresh",
		SubmittedAt: time.Now().UTC(),
	}
	if err := jl.Record(stale); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := jl.Record(fresh); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Reopen with a 24h retention window; only the fresh job survives.
	pruned, err := NewJobLog(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to reopen job log: %v", err)
	}

	if _, ok := pruned.Get("stale"); ok {
		t.Error("Stale job survived the retention window")
	}
	if _, ok := pruned.Get("fresh"); !ok {
		t.Error("Fresh job was pruned")
	}
	if pruned.Count() != 1 {
		t.Errorf("Count = %d, want 1", pruned.Count())
	}
}

func TestJobLogToleratesMissingFile(t *testing.T) {
	jl, err := NewJobLog(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewJobLog failed on an empty directory: %v", err)
	}
	if jl.Count() != 0 {
		t.Errorf("Count = %d, want 0", jl.Count())
	}
}
