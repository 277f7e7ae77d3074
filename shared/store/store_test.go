package store

import (
	"testing"

	"autoreel/internal/models"
)

func TestComputeInsightsEmpty(t *testing.T) {
	insights := ComputeInsights(nil)

	if insights.TotalVideos != 0 || insights.TotalViews != 0 {
		t.Errorf("Empty input should produce zero totals, got %+v", insights)
	}
	if insights.AverageEngagementRate != 0 {
		t.Errorf("AverageEngagementRate = %g, want 0", insights.AverageEngagementRate)
	}
}

func TestComputeInsightsTotals(t *testing.T) {
	videos := []models.ManagedVideo{
		{Title: "A", Views: 1000, Likes: 100, Comments: 0},
		{Title: "B", Views: 3000, Likes: 200, Comments: 100},
	}

	insights := ComputeInsights(videos)

	if insights.TotalVideos != 2 {
		t.Errorf("TotalVideos = %d, want 2", insights.TotalVideos)
	}
	if insights.TotalViews != 4000 {
		t.Errorf("TotalViews = %d, want 4000", insights.TotalViews)
	}
	if insights.TotalLikes != 300 {
		t.Errorf("TotalLikes = %d, want 300", insights.TotalLikes)
	}
	if insights.TotalComments != 100 {
		t.Errorf("TotalComments = %d, want 100", insights.TotalComments)
	}

	// The average is the ratio of totals: (300+100)/4000.
	want := 0.1
	if diff := insights.AverageEngagementRate - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AverageEngagementRate = %g, want %g", insights.AverageEngagementRate, want)
	}
}

func TestComputeInsightsZeroViews(t *testing.T) {
	// Likes on videos nobody has viewed yet must not divide by zero.
	videos := []models.ManagedVideo{
		{Title: "Unwatched", Views: 0, Likes: 10, Comments: 5},
	}

	insights := ComputeInsights(videos)

	if insights.AverageEngagementRate != 0 {
		t.Errorf("AverageEngagementRate = %g, want 0", insights.AverageEngagementRate)
	}
	if insights.TotalLikes != 10 || insights.TotalComments != 5 {
		t.Errorf("Totals should still count, got likes=%d comments=%d", insights.TotalLikes, insights.TotalComments)
	}
}
