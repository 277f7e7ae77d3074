package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"autoreel/internal/models"

	"github.com/google/uuid"
)

// JobLog keeps a persistent record of text-to-video jobs so repeated
// runs can see what was generated and where it landed. Entries are
// keyed by track ID and re-recording a job updates it in place.
type JobLog struct {
	filePath string
	jobs     map[string]models.GenerationJob
	mu       sync.RWMutex
	maxAge   time.Duration
}

// NewJobLog opens (or creates) the job log under dataDir. Entries older
// than maxAge are dropped on load.
func NewJobLog(dataDir string, maxAge time.Duration) (*JobLog, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	jl := &JobLog{
		filePath: filepath.Join(dataDir, "generation_jobs.json"),
		jobs:     make(map[string]models.GenerationJob),
		maxAge:   maxAge,
	}

	if err := jl.load(); err != nil {
		return nil, fmt.Errorf("failed to load job log: %w", err)
	}
	jl.cleanup()

	return jl, nil
}

// Record upserts a job by track ID, assigning one if the job has none.
func (jl *JobLog) Record(job models.GenerationJob) error {
	jl.mu.Lock()
	defer jl.mu.Unlock()

	if job.TrackID == "" {
		job.TrackID = uuid.NewString()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}

	jl.jobs[job.TrackID] = job
	return jl.save()
}

// Get looks a job up by track ID.
func (jl *JobLog) Get(trackID string) (models.GenerationJob, bool) {
	jl.mu.RLock()
	defer jl.mu.RUnlock()

	job, ok := jl.jobs[trackID]
	return job, ok
}

// Recent returns up to n jobs, newest submission first.
func (jl *JobLog) Recent(n int) []models.GenerationJob {
	jl.mu.RLock()
	defer jl.mu.RUnlock()

	jobs := make([]models.GenerationJob, 0, len(jl.jobs))
	for _, job := range jl.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].SubmittedAt.After(jobs[j].SubmittedAt)
	})

	if n > 0 && len(jobs) > n {
		jobs = jobs[:n]
	}
	return jobs
}

// Count returns the number of logged jobs.
func (jl *JobLog) Count() int {
	jl.mu.RLock()
	defer jl.mu.RUnlock()
	return len(jl.jobs)
}

func (jl *JobLog) cleanup() {
	if jl.maxAge <= 0 {
		return
	}
	cutoff := time.Now().Add(-jl.maxAge)

	for trackID, job := range jl.jobs {
		if job.SubmittedAt.Before(cutoff) {
			delete(jl.jobs, trackID)
		}
	}
}

func (jl *JobLog) load() error {
	file, err := os.Open(jl.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open job log file: %w", err)
	}
	defer file.Close()

	var jobs []models.GenerationJob
	if err := json.NewDecoder(file).Decode(&jobs); err != nil {
		return fmt.Errorf("failed to decode job log: %w", err)
	}

	for _, job := range jobs {
		jl.jobs[job.TrackID] = job
	}

	return nil
}

func (jl *JobLog) save() error {
	jobs := make([]models.GenerationJob, 0, len(jl.jobs))
	for _, job := range jl.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].SubmittedAt.After(jobs[j].SubmittedAt)
	})

	file, err := os.Create(jl.filePath)
	if err != nil {
		return fmt.Errorf("failed to create job log file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jobs)
}
