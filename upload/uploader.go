package upload

import (
	"context"
	"fmt"
	"log"
	"os"

	"autoreel/internal/models"
	"autoreel/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Uploader publishes video files to YouTube over the Data API.
type Uploader struct {
	config  *config.YouTubeConfig
	service *youtube.Service
}

func NewUploader(ctx context.Context, cfg *config.YouTubeConfig) (*Uploader, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("YouTube OAuth client is required (set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET)")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{youtube.YoutubeUploadScope},
		Endpoint:     google.Endpoint,
	}

	token, err := obtainToken(ctx, oauthConfig, cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth token: %w", err)
	}

	tokenSource := &savingTokenSource{
		config:    oauthConfig,
		token:     token,
		tokenFile: cfg.TokenFile,
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Uploader{config: cfg, service: service}, nil
}

// Upload sends the file to YouTube with the managed video's metadata
// and returns the new video ID and watch URL. Privacy comes from the
// config and defaults to private.
func (u *Uploader) Upload(ctx context.Context, filePath string, video models.ManagedVideo) (string, string, error) {
	if video.Title == "" {
		return "", "", fmt.Errorf("video title is required")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		log.Printf("Uploading %q (%.1f MB)...", video.Title, float64(fi.Size())/1024/1024)
	}

	privacy := u.config.Privacy
	if privacy == "" {
		privacy = "private"
	}

	upload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       video.Title,
			Description: video.Description,
			Tags:        video.Tags,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: privacy,
		},
	}

	call := u.service.Videos.Insert([]string{"snippet", "status"}, upload).
		Media(f).
		Context(ctx)

	uploaded, err := call.Do()
	if err != nil {
		return "", "", fmt.Errorf("failed to upload video: %w", err)
	}

	videoURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", uploaded.Id)
	log.Printf("Uploaded video %s: %s", uploaded.Id, videoURL)

	return uploaded.Id, videoURL, nil
}
