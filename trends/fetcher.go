package trends

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"autoreel/internal/models"
	"autoreel/shared/config"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Fetcher pulls trending video metadata from the YouTube Data API using
// an API key. Upload and anything else that needs OAuth lives elsewhere.
type Fetcher struct {
	service *youtube.Service
	config  *config.YouTubeConfig
}

type FetchOptions struct {
	MaxResults int64
	Region     string
	Language   string
	DaysOld    int
}

func NewFetcher(ctx context.Context, cfg *config.YouTubeConfig) (*Fetcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key is required (set YOUTUBE_API_KEY or youtube.api_key)")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Fetcher{service: service, config: cfg}, nil
}

// newFetcherWithService wires an existing service, letting tests point
// the client at a local server.
func newFetcherWithService(service *youtube.Service, cfg *config.YouTubeConfig) *Fetcher {
	return &Fetcher{service: service, config: cfg}
}

// Options returns FetchOptions seeded from the config defaults.
func (f *Fetcher) Options() FetchOptions {
	return FetchOptions{
		MaxResults: f.config.MaxResults,
		Region:     f.config.Region,
		Language:   f.config.Language,
		DaysOld:    f.config.DaysOld,
	}
}

// FetchTrending searches for the most viewed videos published in the
// last opts.DaysOld days, then loads full details for each. Results are
// sorted by view count descending and truncated to opts.MaxResults. An
// empty result with a nil error means the search genuinely matched
// nothing; transport and API errors are returned for the caller to
// downgrade as it sees fit.
func (f *Fetcher) FetchTrending(ctx context.Context, opts FetchOptions) ([]models.TrendingVideo, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 20
	}
	if opts.DaysOld <= 0 {
		opts.DaysOld = 7
	}

	threshold := time.Now().UTC().AddDate(0, 0, -opts.DaysOld)

	// Step 1: search for candidate video IDs. The search is padded to
	// twice the requested size so the view-count cut below has slack.
	searchCall := f.service.Search.List([]string{"id"}).
		Type("video").
		Order("viewCount").
		PublishedAfter(threshold.Format(time.RFC3339)).
		MaxResults(opts.MaxResults * 2).
		Context(ctx)
	if opts.Region != "" {
		searchCall = searchCall.RegionCode(opts.Region)
	}
	if opts.Language != "" {
		searchCall = searchCall.RelevanceLanguage(opts.Language)
	}

	searchResponse, err := searchCall.Do()
	if err != nil {
		return nil, fmt.Errorf("trending search failed: %w", err)
	}

	var videoIDs []string
	for _, item := range searchResponse.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}

	if len(videoIDs) == 0 {
		log.Println("No trending videos matched the search window")
		return []models.TrendingVideo{}, nil
	}

	// Step 2: load snippet, duration and statistics in batches.
	videos := make([]models.TrendingVideo, 0, len(videoIDs))
	batchSize := 50

	for i := 0; i < len(videoIDs); i += batchSize {
		end := i + batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		videosCall := f.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(strings.Join(videoIDs[i:end], ",")).
			Context(ctx)

		videosResponse, err := videosCall.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get video details: %w", err)
		}

		for _, item := range videosResponse.Items {
			videos = append(videos, videoFromItem(item))
		}
	}

	// Step 3: rank by views and keep the requested count. The sort is
	// stable so equally viewed videos keep their API order.
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Views > videos[j].Views
	})
	if int64(len(videos)) > opts.MaxResults {
		videos = videos[:opts.MaxResults]
	}

	log.Printf("Fetched %d trending videos (region=%s, language=%s, days=%d)",
		len(videos), opts.Region, opts.Language, opts.DaysOld)

	return videos, nil
}

// VideoDetails loads current metadata and statistics for a single video.
// It returns nil with a nil error when the ID no longer resolves.
func (f *Fetcher) VideoDetails(ctx context.Context, videoID string) (*models.TrendingVideo, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	response, err := f.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get details for video %s: %w", videoID, err)
	}

	if len(response.Items) == 0 {
		return nil, nil
	}

	video := videoFromItem(response.Items[0])
	return &video, nil
}

func videoFromItem(item *youtube.Video) models.TrendingVideo {
	video := models.TrendingVideo{
		VideoID: item.Id,
		URL:     fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id),
	}

	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.Description = item.Snippet.Description
		video.ChannelID = item.Snippet.ChannelId
		video.ChannelTitle = item.Snippet.ChannelTitle
		video.Tags = item.Snippet.Tags
		video.CategoryID = item.Snippet.CategoryId
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			video.PublishedAt = publishedAt
		}
	}

	if item.ContentDetails != nil {
		video.Duration = item.ContentDetails.Duration
		video.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
	}

	if item.Statistics != nil {
		video.Views = int64(item.Statistics.ViewCount)
		video.Likes = int64(item.Statistics.LikeCount)
		video.Comments = int64(item.Statistics.CommentCount)
	}

	return video
}

// parseDurationSeconds converts an ISO 8601 duration like "PT1M30S" or
// "PT2H15M30S" to seconds. Malformed input degrades to zero.
func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	re := regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)
	matches := re.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}

	return totalSeconds
}
