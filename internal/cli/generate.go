package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"autoreel/generation"
	"autoreel/internal/models"
	"autoreel/shared/config"
	"autoreel/shared/storage"
	"autoreel/trends"
)

// Jobs older than this are pruned from the local job log.
const jobLogMaxAge = 30 * 24 * time.Hour

var (
	genTopic      string
	genTone       string
	genLength     string
	genStory      string
	genDuration   string
	genVideo      bool
	genOutput     string
	genFromTrends bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a video prompt and optionally a video",
	Long: `Generate a concise text-to-video prompt from a topic or story summary,
optionally informed by current trending content, and submit it to the
video generation backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if strings.TrimSpace(genTopic) == "" && strings.TrimSpace(genStory) == "" {
			return fmt.Errorf("provide a --topic or a --story to generate content from")
		}

		ctx := context.Background()

		var analysis *models.AnalysisSummary
		if genFromTrends {
			analysis = fetchTrendAnalysis(ctx, cfg)
		}

		prompter, err := generation.NewPrompter(ctx, &cfg.AI)
		if err != nil {
			return err
		}

		content, err := prompter.GenerateContent(ctx, generation.ContentRequest{
			Topic:        genTopic,
			ContentKind:  "Video Script",
			Tone:         genTone,
			Length:       genLength,
			StorySummary: genStory,
			Analysis:     analysis,
		})
		if err != nil {
			return fmt.Errorf("failed to generate content: %w", err)
		}

		fmt.Println("Video Prompt:")
		fmt.Printf("  %s\n", content.VideoPrompt)
		fmt.Printf("Video Length: %s\n", generation.DurationLabel(content.VideoLength))
		if len(content.Tags) > 0 {
			fmt.Printf("Tags:")
			for _, tag := range content.Tags {
				fmt.Printf(" #%s", tag)
			}
			fmt.Println()
		}

		if !genVideo {
			return nil
		}

		duration := genDuration
		if duration == "" {
			duration = content.VideoLength
		}

		return generateVideo(ctx, cfg, content.VideoPrompt, duration)
	},
}

// fetchTrendAnalysis pulls current trends for prompt context. Trend data is
// optional, so failures degrade to prompt generation without it.
func fetchTrendAnalysis(ctx context.Context, cfg *config.Config) *models.AnalysisSummary {
	fetcher, err := trends.NewFetcher(ctx, &cfg.YouTube)
	if err != nil {
		log.Printf("Warning: Trend analysis unavailable: %v", err)
		return nil
	}

	videos, err := fetcher.FetchTrending(ctx, fetcher.Options())
	if err != nil {
		log.Printf("Warning: Failed to fetch trending videos: %v", err)
		return nil
	}
	if len(videos) == 0 {
		return nil
	}

	summary := trends.Analyze(videos)
	return &summary
}

func generateVideo(ctx context.Context, cfg *config.Config, prompt, duration string) error {
	client, err := generation.NewVideoClient(&cfg.VideoGen)
	if err != nil {
		return err
	}

	jobLog, err := storage.NewJobLog(cfg.Storage.DataDir, jobLogMaxAge)
	if err != nil {
		log.Printf("Warning: Job log unavailable: %v", err)
	}

	req := generation.NewVideoRequest(prompt)
	req.NumFrames = generation.FramesForDuration(duration)

	fmt.Printf("Submitting video generation request (%d frames)...\n", req.NumFrames)
	job, err := client.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("video generation failed: %w", err)
	}
	recordJob(jobLog, job)

	mediaURL := job.MediaURL
	if job.Phase != models.JobSucceeded {
		fmt.Printf("Video is processing (track ID %s, ETA %.0fs)...\n", job.TrackID, job.ETASeconds)

		poller := generation.NewPoller(client, cfg.VideoGen.PollAttempts)
		mediaURL, err = poller.Wait(ctx, job)
		recordJob(jobLog, job)
		if errors.Is(err, generation.ErrStillProcessing) {
			fmt.Println("Video generation is taking longer than expected. Please check back later.")
			if job.FutureURL != "" {
				fmt.Printf("The video may appear at: %s\n", job.FutureURL)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("video generation failed: %w", err)
		}
	}

	fmt.Printf("Video generated successfully: %s\n", mediaURL)

	if genOutput != "" {
		if err := downloadFile(ctx, mediaURL, genOutput); err != nil {
			log.Printf("Warning: Failed to download video: %v", err)
			fmt.Println("Could not download the video. Use the URL above instead.")
			return nil
		}
		fmt.Printf("Video saved to %s\n", genOutput)
	}

	return nil
}

func recordJob(jobLog *storage.JobLog, job *models.GenerationJob) {
	if jobLog == nil || job == nil {
		return
	}
	if err := jobLog.Record(*job); err != nil {
		log.Printf("Warning: Failed to record generation job: %v", err)
	}
}

func downloadFile(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	generateCmd.Flags().StringVar(&genTopic, "topic", "", "topic to generate content about")
	generateCmd.Flags().StringVar(&genTone, "tone", "Professional", "tone of the generated content")
	generateCmd.Flags().StringVar(&genLength, "length", "Medium", "content length (Short, Medium or Long)")
	generateCmd.Flags().StringVar(&genStory, "story", "", "story summary to generate content from")
	generateCmd.Flags().StringVar(&genDuration, "duration", "", "target video duration in seconds (30, 60 or 120)")
	generateCmd.Flags().BoolVar(&genVideo, "video", false, "submit the prompt to the video generation backend")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "download the generated video to this file")
	generateCmd.Flags().BoolVar(&genFromTrends, "from-trends", false, "blend current trending tags into the prompt")

	rootCmd.AddCommand(generateCmd)
}
