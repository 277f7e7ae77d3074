package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusUploaded  = "Uploaded"
	PlatformYouTube = "YouTube"
)

// ManagedVideo is one document in the managed_videos collection. VideoID
// is the YouTube video ID when the upload went through the API; the
// stats counters are refreshed by the sync agent.
type ManagedVideo struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Tags         []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	UploadDate   time.Time          `bson:"upload_date" json:"upload_date"`
	Status       string             `bson:"status" json:"status"`
	Platform     string             `bson:"platform" json:"platform"`
	VideoID      string             `bson:"video_id,omitempty" json:"video_id,omitempty"`
	Views        int64              `bson:"views" json:"views"`
	Likes        int64              `bson:"likes" json:"likes"`
	Comments     int64              `bson:"comments" json:"comments"`
	ThumbnailURL string             `bson:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
}

// EngagementRate follows the same zero-views rule as TrendingVideo.
func (v *ManagedVideo) EngagementRate() float64 {
	if v.Views == 0 {
		return 0
	}
	return float64(v.Likes+v.Comments) / float64(v.Views)
}

// VideoInsights are the portfolio totals over every managed video. The
// average engagement rate is computed over the totals, not averaged per
// video, and is zero when nothing has views yet.
type VideoInsights struct {
	TotalVideos           int     `json:"total_videos"`
	TotalViews            int64   `json:"total_views"`
	TotalLikes            int64   `json:"total_likes"`
	TotalComments         int64   `json:"total_comments"`
	AverageEngagementRate float64 `json:"average_engagement_rate"`
}
