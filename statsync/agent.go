package statsync

import (
	"context"
	"fmt"
	"log"
	"time"

	"autoreel/internal/models"
	"autoreel/shared/config"
	"autoreel/shared/scheduler"
	"autoreel/shared/store"
	"autoreel/trends"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// videoSource provides current YouTube statistics for a single video.
type videoSource interface {
	VideoDetails(ctx context.Context, videoID string) (*models.TrendingVideo, error)
}

// videoStore is the slice of the managed-video store the agent needs.
type videoStore interface {
	ListVideos(ctx context.Context) ([]models.ManagedVideo, error)
	UpdateStats(ctx context.Context, id primitive.ObjectID, views, likes, comments int64) error
}

// Agent refreshes the engagement counters of managed videos from the
// YouTube Data API. It implements the scheduler.Agent interface.
type Agent struct {
	config  *config.Config
	source  videoSource
	storage videoStore
}

func New(cfg *config.Config) *Agent {
	return &Agent{config: cfg}
}

func (a *Agent) Name() string {
	return "Video Stats Sync"
}

func (a *Agent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())
	ctx := context.Background()

	if a.source == nil {
		fetcher, err := trends.NewFetcher(ctx, &a.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create YouTube fetcher: %w", err)
		}
		a.source = fetcher
		log.Println("YouTube fetcher initialized")
	}

	if a.storage == nil {
		st, err := store.Connect(ctx, &a.config.Mongo)
		if err != nil {
			return fmt.Errorf("failed to connect to video store: %w", err)
		}
		a.storage = st
		log.Println("Video store initialized")
	}

	return nil
}

// SyncMetrics summarizes one sync run.
type SyncMetrics struct {
	Found   int
	Synced  int
	Skipped int
	Errors  int
}

func (m SyncMetrics) GetSummary() string {
	return fmt.Sprintf("synced %d of %d videos (%d without video ID, %d errors)",
		m.Synced, m.Found, m.Skipped, m.Errors)
}

// RunOnce walks every managed video that carries a YouTube video ID and
// writes its current view, like and comment counts back to the store.
// Per-video failures are tolerated until they exceed half the eligible
// set; videos without an ID are skipped.
func (a *Agent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()

	videos, err := a.storage.ListVideos(ctx)
	if err != nil {
		return fmt.Errorf("failed to list managed videos: %w", err)
	}

	metrics := SyncMetrics{Found: len(videos)}

	var eligible []models.ManagedVideo
	for _, v := range videos {
		if v.VideoID == "" {
			metrics.Skipped++
			continue
		}
		eligible = append(eligible, v)
	}

	log.Printf("Found %d managed videos (%d with a video ID)", len(videos), len(eligible))

	if len(eligible) == 0 {
		log.Println("Nothing to sync")
		duration := time.Since(startTime)
		if events != nil && events.OnSuccess != nil {
			events.OnSuccess(metrics, duration)
		}
		return nil
	}

	for i := range eligible {
		v := &eligible[i]
		log.Printf("Syncing stats %d/%d: %s", i+1, len(eligible), v.Title)

		details, err := a.source.VideoDetails(ctx, v.VideoID)
		if err != nil {
			log.Printf("Warning: Failed to fetch stats for %s (%s): %v", v.VideoID, v.Title, err)
			metrics.Errors++
			if metrics.Errors > len(eligible)/2 {
				return fmt.Errorf("too many sync failures (%d/%d), stopping", metrics.Errors, i+1)
			}
			continue
		}
		if details == nil {
			log.Printf("Warning: Video %s (%s) is no longer visible, skipping", v.VideoID, v.Title)
			metrics.Skipped++
			continue
		}

		if err := a.storage.UpdateStats(ctx, v.ID, details.Views, details.Likes, details.Comments); err != nil {
			log.Printf("Warning: Failed to store stats for %s: %v", v.Title, err)
			metrics.Errors++
			continue
		}
		metrics.Synced++
	}

	duration := time.Since(startTime)
	log.Printf("Sync complete: %s", metrics.GetSummary())

	if events != nil {
		if metrics.Errors > 0 && events.OnPartialFailure != nil {
			events.OnPartialFailure(fmt.Errorf("%d of %d updates failed", metrics.Errors, len(eligible)), duration)
		} else if events.OnSuccess != nil {
			events.OnSuccess(metrics, duration)
		}
	}

	return nil
}
