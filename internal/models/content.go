package models

import "time"

// GeneratedContent is the output of a prompt generation run: the video
// prompt itself, the duration bucket it targets, and hashtag candidates.
type GeneratedContent struct {
	VideoPrompt string   `json:"video_prompt"`
	VideoLength string   `json:"video_length"`
	Tags        []string `json:"tags"`
}

// JobPhase tracks a text-to-video job through its lifecycle.
type JobPhase string

const (
	JobSubmitted  JobPhase = "submitted"
	JobProcessing JobPhase = "processing"
	JobSucceeded  JobPhase = "succeeded"
	JobFailed     JobPhase = "failed"
)

// GenerationJob records one text-to-video submission and its progress.
// ETASeconds and FetchURL come from the backend while the job is
// processing; MediaURL is set once it succeeds.
type GenerationJob struct {
	TrackID     string    `json:"track_id"`
	Prompt      string    `json:"prompt"`
	Phase       JobPhase  `json:"phase"`
	ETASeconds  float64   `json:"eta_seconds,omitempty"`
	FetchURL    string    `json:"fetch_url,omitempty"`
	FutureURL   string    `json:"future_url,omitempty"`
	MediaURL    string    `json:"media_url,omitempty"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	Attempts    int       `json:"attempts"`
}
