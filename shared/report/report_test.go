package report

import (
	"strings"
	"testing"

	"autoreel/internal/models"
)

func TestRenderFullReport(t *testing.T) {
	summary := &models.AnalysisSummary{
		VideoCount:             12,
		AverageDurationSeconds: 100,
		AverageEngagementRate:  0.0423,
		CommonTags: []models.TagCount{
			{Tag: "music", Count: 6},
			{Tag: "live", Count: 4},
			{Tag: "concert", Count: 3},
			{Tag: "remix", Count: 2},
		},
		TopCategories: []models.CategoryCount{
			{CategoryID: "10", Count: 7},
			{CategoryID: "24", Count: 3},
		},
		TopVideos: []models.TrendingVideo{
			{
				Title:           "Big <Hit>",
				ChannelTitle:    "Channel One",
				Views:           123456,
				DurationSeconds: 95,
				Likes:           1000,
				Comments:        200,
				URL:             "https://www.youtube.com/watch?v=abc",
			},
		},
	}

	var sb strings.Builder
	if err := Render(&sb, summary); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		"over 12 videos",
		"0:01:40", // average duration
		"4.23%",   // engagement
		"Music: 7 videos",
		"Entertainment: 3 videos",
		"#music: 6 times",
		"Channel One",
		"123456",
		"0:01:20 to 0:02:00", // 80% and 120% of the average
		"Most popular category: Music",
		"#music, #live, #concert", // top three tags only
		"https://www.youtube.com/watch?v=abc",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Report missing %q", want)
		}
	}

	// html/template must escape the title.
	if strings.Contains(html, "Big <Hit>") {
		t.Error("Video title was not HTML-escaped")
	}
	if !strings.Contains(html, "Big &lt;Hit&gt;") {
		t.Error("Escaped video title not found")
	}
	if strings.Contains(html, "#remix, ") {
		t.Error("Recommended tags should stop at three")
	}
}

func TestRenderEmptySummary(t *testing.T) {
	var sb strings.Builder
	if err := Render(&sb, &models.AnalysisSummary{}); err != nil {
		t.Fatalf("Render failed on empty summary: %v", err)
	}
	html := sb.String()

	if !strings.Contains(html, "No category data") {
		t.Error("Empty summary should note missing category data")
	}
	if !strings.Contains(html, "No tag data") {
		t.Error("Empty summary should note missing tag data")
	}
}

func TestRenderNilSummary(t *testing.T) {
	var sb strings.Builder
	if err := Render(&sb, nil); err == nil {
		t.Error("Expected error for nil summary")
	}
}
