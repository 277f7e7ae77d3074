package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"autoreel/generation"
	"autoreel/internal/models"
	"autoreel/shared/config"
	"autoreel/shared/report"
	"autoreel/trends"
)

var (
	trendsMaxResults int64
	trendsRegion     string
	trendsLanguage   string
	trendsDaysOld    int
	trendsJSON       bool
	trendsReport     string
	trendsThemes     bool
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Fetch and analyze trending videos",
	Long: `Fetch the most viewed recent YouTube videos for a region and language,
then summarize durations, engagement, common tags and categories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := context.Background()

		fetcher, err := trends.NewFetcher(ctx, &cfg.YouTube)
		if err != nil {
			return err
		}

		opts := fetcher.Options()
		if cmd.Flags().Changed("max-results") {
			opts.MaxResults = trendsMaxResults
		}
		if cmd.Flags().Changed("region") {
			opts.Region = trendsRegion
		}
		if cmd.Flags().Changed("language") {
			opts.Language = trendsLanguage
		}
		if cmd.Flags().Changed("days-old") {
			opts.DaysOld = trendsDaysOld
		}

		videos, err := fetcher.FetchTrending(ctx, opts)
		if err != nil {
			log.Printf("Warning: Failed to fetch trending videos: %v", err)
			fmt.Println("Failed to fetch trending videos. Please check your API key and try again.")
			return nil
		}
		if len(videos) == 0 {
			fmt.Println("No trending videos found for the requested window.")
			return nil
		}

		summary := trends.Analyze(videos)

		if trendsJSON {
			out, err := json.MarshalIndent(struct {
				Videos   []models.TrendingVideo `json:"videos"`
				Analysis models.AnalysisSummary `json:"analysis"`
			}{videos, summary}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode results: %w", err)
			}
			fmt.Println(string(out))
		} else {
			printTrendingVideos(videos)
			printAnalysisSummary(&summary)
		}

		if trendsThemes {
			if err := printTopicThemes(ctx, cfg, videos); err != nil {
				log.Printf("Warning: Topic analysis failed: %v", err)
			}
		}

		if trendsReport != "" {
			if err := writeTrendsReport(trendsReport, &summary); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", trendsReport)
		}

		return nil
	},
}

func printTrendingVideos(videos []models.TrendingVideo) {
	fmt.Printf("Fetched %d trending videos:\n\n", len(videos))
	for i := range videos {
		v := &videos[i]
		fmt.Printf("%2d. %s\n", i+1, v.Title)
		fmt.Printf("    Channel: %s | Duration: %s | Views: %d\n", v.ChannelTitle, models.FormatDuration(v.DurationSeconds), v.Views)
		fmt.Printf("    Likes: %d | Comments: %d | Engagement: %.2f%% | %s\n", v.Likes, v.Comments, v.EngagementRate()*100, v.URL)
	}
	fmt.Println()
}

func printAnalysisSummary(summary *models.AnalysisSummary) {
	fmt.Println("Content Analysis Summary")
	fmt.Println()

	fmt.Println("Top Categories:")
	for _, c := range summary.TopCategories {
		fmt.Printf("  - %s: %d videos\n", trends.CategoryName(c.CategoryID), c.Count)
	}

	fmt.Println("Common Tags:")
	for _, t := range summary.CommonTags {
		fmt.Printf("  - #%s: %d videos\n", t.Tag, t.Count)
	}

	fmt.Println("Performance Metrics:")
	fmt.Printf("  Average Duration: %s\n", models.FormatDuration(int(summary.AverageDurationSeconds)))
	fmt.Printf("  Average Engagement Rate: %.2f%%\n", summary.AverageEngagementRate*100)

	fmt.Println("Key Takeaways:")
	fmt.Printf("  1. Optimal Video Duration: %s to %s\n",
		models.FormatDuration(int(summary.AverageDurationSeconds*0.8)),
		models.FormatDuration(int(summary.AverageDurationSeconds*1.2)))
	if len(summary.TopCategories) > 0 {
		fmt.Printf("  2. Most Popular Category: %s\n", trends.CategoryName(summary.TopCategories[0].CategoryID))
	}
	if len(summary.CommonTags) > 0 {
		tags := summary.CommonTags
		if len(tags) > 3 {
			tags = tags[:3]
		}
		fmt.Printf("  3. Recommended Tags:")
		for _, t := range tags {
			fmt.Printf(" #%s", t.Tag)
		}
		fmt.Println()
	}
	fmt.Printf("  4. Target Engagement Rate: > %.2f%%\n", summary.AverageEngagementRate*100)
}

func printTopicThemes(ctx context.Context, cfg *config.Config, videos []models.TrendingVideo) error {
	prompter, err := generation.NewPrompter(ctx, &cfg.AI)
	if err != nil {
		return err
	}

	analysis, err := prompter.AnalyzeTopics(ctx, videos)
	if err != nil {
		return err
	}

	fmt.Println("Topic Analysis:")
	fmt.Printf("  Common Themes: %v\n", analysis.CommonThemes)
	fmt.Printf("  Content Formats: %v\n", analysis.ContentFormats)
	fmt.Printf("  Title Patterns: %v\n", analysis.TitlePatterns)
	fmt.Printf("  Success Factors: %v\n", analysis.SuccessFactors)
	return nil
}

func writeTrendsReport(path string, summary *models.AnalysisSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := report.Render(f, summary); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func init() {
	trendsCmd.Flags().Int64Var(&trendsMaxResults, "max-results", 20, "maximum number of videos to fetch")
	trendsCmd.Flags().StringVar(&trendsRegion, "region", "IN", "region code to fetch trends for")
	trendsCmd.Flags().StringVar(&trendsLanguage, "language", "hi", "relevance language for the search")
	trendsCmd.Flags().IntVar(&trendsDaysOld, "days-old", 7, "only include videos published within this many days")
	trendsCmd.Flags().BoolVar(&trendsJSON, "json", false, "print videos and analysis as JSON")
	trendsCmd.Flags().StringVar(&trendsReport, "report", "", "write an HTML analysis report to this file")
	trendsCmd.Flags().BoolVar(&trendsThemes, "themes", false, "run AI topic analysis over the fetched videos")

	rootCmd.AddCommand(trendsCmd)
}
