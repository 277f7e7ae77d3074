package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autoreel/internal/models"
	"autoreel/shared/config"
	"autoreel/shared/store"
	"autoreel/upload"
)

var (
	videoTitle       string
	videoDescription string
	videoTags        string
	videoID          string
	videoThumbnail   string
	videoFile        string
	videoPrivacy     string
	videosListJSON   bool
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "Manage your published videos",
}

var videosAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an already-published video",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if strings.TrimSpace(videoTitle) == "" {
			return fmt.Errorf("a --title is required")
		}

		ctx := context.Background()
		st, err := store.Connect(ctx, &cfg.Mongo)
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		id, err := st.InsertVideo(ctx, models.ManagedVideo{
			Title:        videoTitle,
			Description:  videoDescription,
			Tags:         splitTags(videoTags),
			VideoID:      videoID,
			ThumbnailURL: videoThumbnail,
		})
		if err != nil {
			return fmt.Errorf("failed to save video: %w", err)
		}

		fmt.Printf("Video details saved (%s)\n", id.Hex())
		return nil
	},
}

var videosUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a video file to YouTube and record it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if strings.TrimSpace(videoFile) == "" {
			return fmt.Errorf("a --file to upload is required")
		}
		if strings.TrimSpace(videoTitle) == "" {
			return fmt.Errorf("a --title is required")
		}
		if videoPrivacy != "" {
			cfg.YouTube.Privacy = videoPrivacy
		}

		ctx := context.Background()

		uploader, err := upload.NewUploader(ctx, &cfg.YouTube)
		if err != nil {
			return err
		}

		video := models.ManagedVideo{
			Title:       videoTitle,
			Description: videoDescription,
			Tags:        splitTags(videoTags),
		}

		uploadedID, watchURL, err := uploader.Upload(ctx, videoFile, video)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		fmt.Printf("Video uploaded: %s\n", watchURL)

		st, err := store.Connect(ctx, &cfg.Mongo)
		if err != nil {
			return fmt.Errorf("video uploaded but could not be recorded: %w", err)
		}
		defer st.Close(ctx)

		video.VideoID = uploadedID
		if _, err := st.InsertVideo(ctx, video); err != nil {
			return fmt.Errorf("video uploaded but could not be recorded: %w", err)
		}

		fmt.Println("Video details saved")
		return nil
	},
}

var videosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded videos, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := context.Background()
		st, err := store.Connect(ctx, &cfg.Mongo)
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		videos, err := st.ListVideos(ctx)
		if err != nil {
			return fmt.Errorf("failed to list videos: %w", err)
		}

		if videosListJSON {
			out, err := json.MarshalIndent(videos, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode videos: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		if len(videos) == 0 {
			fmt.Println("No videos recorded yet.")
			return nil
		}

		for i := range videos {
			v := &videos[i]
			fmt.Printf("%2d. %s\n", i+1, v.Title)
			fmt.Printf("    Uploaded: %s | Status: %s | Platform: %s\n", v.UploadDate.Format("2006-01-02"), v.Status, v.Platform)
			fmt.Printf("    Views: %d | Likes: %d | Comments: %d | Engagement: %.2f%%\n", v.Views, v.Likes, v.Comments, v.EngagementRate()*100)
			if v.VideoID != "" {
				fmt.Printf("    https://www.youtube.com/watch?v=%s\n", v.VideoID)
			}
		}
		return nil
	},
}

var videosInsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize performance across recorded videos",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := context.Background()
		st, err := store.Connect(ctx, &cfg.Mongo)
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		videos, err := st.ListVideos(ctx)
		if err != nil {
			return fmt.Errorf("failed to list videos: %w", err)
		}

		insights := store.ComputeInsights(videos)
		fmt.Println("Video Insights")
		fmt.Printf("  Total Videos: %d\n", insights.TotalVideos)
		fmt.Printf("  Total Views: %d\n", insights.TotalViews)
		fmt.Printf("  Total Likes: %d\n", insights.TotalLikes)
		fmt.Printf("  Total Comments: %d\n", insights.TotalComments)
		fmt.Printf("  Average Engagement Rate: %.2f%%\n", insights.AverageEngagementRate*100)
		return nil
	},
}

// splitTags turns a comma separated flag value into trimmed, non-empty tags.
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

func init() {
	videosAddCmd.Flags().StringVar(&videoTitle, "title", "", "video title")
	videosAddCmd.Flags().StringVar(&videoDescription, "description", "", "video description")
	videosAddCmd.Flags().StringVar(&videoTags, "tags", "", "comma separated tags")
	videosAddCmd.Flags().StringVar(&videoID, "video-id", "", "YouTube video ID, if already uploaded")
	videosAddCmd.Flags().StringVar(&videoThumbnail, "thumbnail", "", "thumbnail URL")

	videosUploadCmd.Flags().StringVar(&videoFile, "file", "", "path of the video file to upload")
	videosUploadCmd.Flags().StringVar(&videoTitle, "title", "", "video title")
	videosUploadCmd.Flags().StringVar(&videoDescription, "description", "", "video description")
	videosUploadCmd.Flags().StringVar(&videoTags, "tags", "", "comma separated tags")
	videosUploadCmd.Flags().StringVar(&videoPrivacy, "privacy", "", "privacy status (private, unlisted or public)")

	videosListCmd.Flags().BoolVar(&videosListJSON, "json", false, "print videos as JSON")

	videosCmd.AddCommand(videosAddCmd)
	videosCmd.AddCommand(videosUploadCmd)
	videosCmd.AddCommand(videosListCmd)
	videosCmd.AddCommand(videosInsightsCmd)
	rootCmd.AddCommand(videosCmd)
}
