package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"autoreel/internal/models"
	"autoreel/shared/config"

	"github.com/google/uuid"
)

// Defaults and ceilings for the text2video backend.
const (
	ModelCogVideoX = "cogvideox"
	ModelWanx      = "wanx"

	defaultNegativePrompt = "low quality"
	defaultHeight         = 512
	defaultWidth          = 512
	defaultNumFrames      = 16
	defaultInferenceSteps = 20
	defaultGuidanceScale  = 7
	defaultOutputType     = "mp4"
	defaultFPS            = 7

	defaultUpscaleHeight         = 1024
	defaultUpscaleWidth          = 1024
	defaultUpscaleStrength       = 0.6
	defaultUpscaleGuidanceScale  = 8
	defaultUpscaleInferenceSteps = 20

	maxDimension      = 512
	maxNumFrames      = 25
	maxInferenceSteps = 50
	maxGuidanceScale  = 8
	maxFPS            = 16
)

// ValidationError reports a request parameter the backend would reject.
// It is returned before any network traffic happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// BackendError is a structured non-success answer from the video
// backend. It is terminal for the request; nothing retries it.
type BackendError struct {
	Status  string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("video backend returned status %q", e.Status)
	}
	return fmt.Sprintf("video backend returned status %q: %s", e.Status, e.Message)
}

// VideoRequest carries every tunable the text2video endpoint accepts.
// Build one with NewVideoRequest to start from the backend defaults.
type VideoRequest struct {
	Prompt               string
	ModelID              string
	NegativePrompt       string
	Height               int
	Width                int
	NumFrames            int
	NumInferenceSteps    int
	GuidanceScale        float64
	OutputType           string
	FPS                  int
	UpscaleHeight        int
	UpscaleWidth         int
	UpscaleStrength      float64
	UpscaleGuidanceScale float64
	UpscaleSteps         int
	ImprovedSampling     bool
	ImprovedSamplingSeed *int64
	Webhook              string
	TrackID              string
}

// NewVideoRequest returns a request with the backend defaults filled in.
func NewVideoRequest(prompt string) VideoRequest {
	return VideoRequest{
		Prompt:               prompt,
		ModelID:              ModelCogVideoX,
		NegativePrompt:       defaultNegativePrompt,
		Height:               defaultHeight,
		Width:                defaultWidth,
		NumFrames:            defaultNumFrames,
		NumInferenceSteps:    defaultInferenceSteps,
		GuidanceScale:        defaultGuidanceScale,
		OutputType:           defaultOutputType,
		FPS:                  defaultFPS,
		UpscaleHeight:        defaultUpscaleHeight,
		UpscaleWidth:         defaultUpscaleWidth,
		UpscaleStrength:      defaultUpscaleStrength,
		UpscaleGuidanceScale: defaultUpscaleGuidanceScale,
		UpscaleSteps:         defaultUpscaleInferenceSteps,
	}
}

func (r *VideoRequest) validate() error {
	if r.Prompt == "" {
		return &ValidationError{Field: "prompt", Message: "cannot be empty"}
	}
	if r.ModelID != ModelCogVideoX && r.ModelID != ModelWanx {
		return &ValidationError{Field: "model_id", Message: "must be 'cogvideox' or 'wanx'"}
	}
	if r.Height > maxDimension || r.Width > maxDimension {
		return &ValidationError{Field: "dimensions", Message: fmt.Sprintf("height and width cannot exceed %d pixels", maxDimension)}
	}
	if r.NumFrames > maxNumFrames {
		return &ValidationError{Field: "num_frames", Message: fmt.Sprintf("cannot exceed %d", maxNumFrames)}
	}
	if r.NumInferenceSteps > maxInferenceSteps {
		return &ValidationError{Field: "num_inference_steps", Message: fmt.Sprintf("cannot exceed %d", maxInferenceSteps)}
	}
	if r.GuidanceScale < 0 || r.GuidanceScale > maxGuidanceScale {
		return &ValidationError{Field: "guidance_scale", Message: fmt.Sprintf("must be between 0 and %d", maxGuidanceScale)}
	}
	if r.OutputType != "mp4" && r.OutputType != "gif" {
		return &ValidationError{Field: "output_type", Message: "must be 'mp4' or 'gif'"}
	}
	if r.FPS > maxFPS {
		return &ValidationError{Field: "fps", Message: fmt.Sprintf("cannot exceed %d", maxFPS)}
	}
	return nil
}

type text2videoPayload struct {
	Key                  string  `json:"key"`
	ModelID              string  `json:"model_id"`
	Prompt               string  `json:"prompt"`
	NegativePrompt       string  `json:"negative_prompt"`
	Height               int     `json:"height"`
	Width                int     `json:"width"`
	NumFrames            int     `json:"num_frames"`
	NumInferenceSteps    int     `json:"num_inference_steps"`
	GuidanceScale        float64 `json:"guidance_scale"`
	OutputType           string  `json:"output_type"`
	FPS                  int     `json:"fps"`
	UpscaleHeight        int     `json:"upscale_height"`
	UpscaleWidth         int     `json:"upscale_width"`
	UpscaleStrength      float64 `json:"upscale_strength"`
	UpscaleGuidanceScale float64 `json:"upscale_guidance_scale"`
	UpscaleSteps         int     `json:"upscale_num_inference_steps"`
	UseImprovedSampling  string  `json:"use_improved_sampling"`
	ImprovedSamplingSeed *int64  `json:"improved_sampling_seed,omitempty"`
	Webhook              string  `json:"webhook,omitempty"`
	TrackID              string  `json:"track_id,omitempty"`
}

type statusResponse struct {
	Status      string   `json:"status"`
	ETA         float64  `json:"eta"`
	FetchResult string   `json:"fetch_result"`
	FutureLinks []string `json:"future_links"`
	Output      []string `json:"output"`
	Message     string   `json:"message"`
}

// VideoClient submits text-to-video jobs to the Modelslab API.
type VideoClient struct {
	apiKey       string
	endpoint     string
	defaultModel string
	webhook      string
	client       *http.Client
}

func NewVideoClient(cfg *config.VideoGenConfig) (*VideoClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Modelslab API key is required (set MODELSLAB_API_KEY or videogen.api_key)")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://modelslab.com/api/v6/video/text2video"
	}
	defaultModel := cfg.ModelID
	if defaultModel == "" {
		defaultModel = ModelCogVideoX
	}

	return &VideoClient{
		apiKey:       cfg.APIKey,
		endpoint:     endpoint,
		defaultModel: defaultModel,
		webhook:      cfg.Webhook,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Generate validates the request and submits it. The returned job is in
// phase processing (with an ETA and fetch URL for the poller) or already
// succeeded when the backend answered synchronously. Parameter problems
// surface as *ValidationError before any request is made; a non-success
// backend answer surfaces as *BackendError.
func (c *VideoClient) Generate(ctx context.Context, req VideoRequest) (*models.GenerationJob, error) {
	if req.ModelID == "" {
		req.ModelID = c.defaultModel
	}
	if req.Webhook == "" {
		req.Webhook = c.webhook
	}
	if req.TrackID == "" {
		req.TrackID = uuid.NewString()
	}

	if err := req.validate(); err != nil {
		return nil, err
	}

	payload := text2videoPayload{
		Key:                  c.apiKey,
		ModelID:              req.ModelID,
		Prompt:               req.Prompt,
		NegativePrompt:       req.NegativePrompt,
		Height:               req.Height,
		Width:                req.Width,
		NumFrames:            req.NumFrames,
		NumInferenceSteps:    req.NumInferenceSteps,
		GuidanceScale:        req.GuidanceScale,
		OutputType:           req.OutputType,
		FPS:                  req.FPS,
		UpscaleHeight:        req.UpscaleHeight,
		UpscaleWidth:         req.UpscaleWidth,
		UpscaleStrength:      req.UpscaleStrength,
		UpscaleGuidanceScale: req.UpscaleGuidanceScale,
		UpscaleSteps:         req.UpscaleSteps,
		UseImprovedSampling:  "no",
		ImprovedSamplingSeed: req.ImprovedSamplingSeed,
		Webhook:              req.Webhook,
		TrackID:              req.TrackID,
	}
	if req.ImprovedSampling {
		payload.UseImprovedSampling = "yes"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode video request: %w", err)
	}

	log.Printf("Submitting video generation (model=%s, frames=%d, fps=%d, track=%s)",
		req.ModelID, req.NumFrames, req.FPS, req.TrackID)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create video request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to submit video request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video backend returned HTTP %d", resp.StatusCode)
	}

	var result statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode video response: %w", err)
	}

	job := &models.GenerationJob{
		TrackID:     req.TrackID,
		Prompt:      req.Prompt,
		Phase:       models.JobSubmitted,
		SubmittedAt: time.Now().UTC(),
	}

	switch result.Status {
	case "processing":
		job.Phase = models.JobProcessing
		job.ETASeconds = result.ETA
		job.FetchURL = result.FetchResult
		if len(result.FutureLinks) > 0 {
			job.FutureURL = result.FutureLinks[0]
		}
		log.Printf("Video processing, ETA %gs, fetch URL %s", job.ETASeconds, job.FetchURL)
		return job, nil
	case "success":
		if len(result.Output) == 0 || result.Output[0] == "" {
			return nil, &BackendError{Status: result.Status, Message: "success response contained no output"}
		}
		job.Phase = models.JobSucceeded
		job.MediaURL = result.Output[0]
		log.Printf("Video generated immediately: %s", job.MediaURL)
		return job, nil
	default:
		return nil, &BackendError{Status: result.Status, Message: result.Message}
	}
}

// fetchStatus issues one GET against a job's fetch URL.
func (c *VideoClient) fetchStatus(ctx context.Context, fetchURL string) (*statusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned HTTP %d", resp.StatusCode)
	}

	var result statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	return &result, nil
}
