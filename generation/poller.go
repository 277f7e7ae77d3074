package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"autoreel/internal/models"
)

// ErrStillProcessing means the poll attempt budget ran out while the
// backend still reported progress. The job may well finish later; the
// caller should tell the user to check back rather than treat this as
// a failure.
var ErrStillProcessing = errors.New("video generation still processing")

// Poller drives a processing job to completion by polling its fetch URL.
// The backend tells us how long to wait between attempts; the attempt
// cap keeps a stuck job from holding the caller forever.
type Poller struct {
	client      *VideoClient
	maxAttempts int
	sleep       func(context.Context, time.Duration) error
}

func NewPoller(client *VideoClient, maxAttempts int) *Poller {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &Poller{
		client:      client,
		maxAttempts: maxAttempts,
		sleep:       sleepContext,
	}
}

// Wait blocks until the job succeeds, fails, or the attempt budget runs
// out. It sleeps the job's initial ETA before the first poll, then per
// poll whatever ETA the backend last reported (five seconds when it
// reports none). The job is updated in place as status comes in.
func (p *Poller) Wait(ctx context.Context, job *models.GenerationJob) (string, error) {
	if job == nil {
		return "", fmt.Errorf("job is required")
	}
	if job.Phase == models.JobSucceeded {
		return job.MediaURL, nil
	}
	if job.FetchURL == "" {
		return "", fmt.Errorf("job %s has no fetch URL", job.TrackID)
	}

	log.Printf("Waiting %gs before first poll of job %s", job.ETASeconds, job.TrackID)
	if err := p.sleep(ctx, etaDuration(job.ETASeconds)); err != nil {
		return "", err
	}

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		log.Printf("Polling attempt %d/%d for job %s", attempt+1, p.maxAttempts, job.TrackID)

		status, err := p.client.fetchStatus(ctx, job.FetchURL)
		if err != nil {
			job.Phase = models.JobFailed
			job.Message = err.Error()
			return "", fmt.Errorf("failed to check video status: %w", err)
		}
		job.Attempts = attempt + 1

		switch status.Status {
		case "success":
			if len(status.Output) == 0 || status.Output[0] == "" {
				job.Phase = models.JobFailed
				job.Message = "success response contained no output"
				return "", &BackendError{Status: status.Status, Message: job.Message}
			}
			job.Phase = models.JobSucceeded
			job.MediaURL = status.Output[0]
			log.Printf("Video ready after %d attempt(s): %s", job.Attempts, job.MediaURL)
			return job.MediaURL, nil
		case "processing":
			eta := status.ETA
			if eta <= 0 {
				eta = 5
			}
			job.ETASeconds = eta
			log.Printf("Still processing, new ETA %gs", eta)
			if err := p.sleep(ctx, etaDuration(eta)); err != nil {
				return "", err
			}
		default:
			job.Phase = models.JobFailed
			job.Message = status.Message
			return "", &BackendError{Status: status.Status, Message: status.Message}
		}
	}

	return "", ErrStillProcessing
}

func etaDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
