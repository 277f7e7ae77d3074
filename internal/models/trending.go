package models

import (
	"fmt"
	"time"
)

// TrendingVideo is one result of a trending fetch: snippet, statistics
// and duration for a single YouTube video.
type TrendingVideo struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ChannelID       string    `json:"channel_id"`
	ChannelTitle    string    `json:"channel_title"`
	PublishedAt     time.Time `json:"published_at"`
	Duration        string    `json:"duration"`
	DurationSeconds int       `json:"duration_seconds"`
	Views           int64     `json:"views"`
	Likes           int64     `json:"likes"`
	Comments        int64     `json:"comments"`
	Tags            []string  `json:"tags,omitempty"`
	CategoryID      string    `json:"category_id"`
	URL             string    `json:"url"`
}

// EngagementRate is (likes+comments)/views. A video with zero views
// scores zero rather than dividing by zero.
func (v *TrendingVideo) EngagementRate() float64 {
	if v.Views == 0 {
		return 0
	}
	return float64(v.Likes+v.Comments) / float64(v.Views)
}

// FormatDuration renders a second count as H:MM:SS.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	CategoryID string `json:"category_id"`
	Count      int    `json:"count"`
}

// AnalysisSummary aggregates a set of trending videos: averages, the
// most frequent tags and categories, and the strongest performers.
type AnalysisSummary struct {
	VideoCount             int             `json:"video_count"`
	AverageDurationSeconds float64         `json:"average_duration_seconds"`
	AverageEngagementRate  float64         `json:"average_engagement_rate"`
	CommonTags             []TagCount      `json:"common_tags"`
	TopCategories          []CategoryCount `json:"top_categories"`
	TopVideos              []TrendingVideo `json:"top_videos"`
}
