package trends

import (
	"sort"

	"autoreel/internal/models"
)

// CategoryNames maps YouTube category IDs to display names.
var CategoryNames = map[string]string{
	"1":  "Film & Animation",
	"2":  "Autos & Vehicles",
	"10": "Music",
	"15": "Pets & Animals",
	"17": "Sports",
	"19": "Travel & Events",
	"20": "Gaming",
	"22": "People & Blogs",
	"23": "Comedy",
	"24": "Entertainment",
	"25": "News & Politics",
	"26": "Howto & Style",
	"27": "Education",
	"28": "Science & Technology",
	"29": "Nonprofits & Activism",
}

// CategoryName resolves a category ID for display.
func CategoryName(id string) string {
	if name, ok := CategoryNames[id]; ok {
		return name
	}
	return "Unknown"
}

// Analyze computes aggregate metrics over a set of trending videos. It
// is pure: no I/O, deterministic for a given input, and safe on an
// empty slice. Frequency rankings break ties by first appearance.
func Analyze(videos []models.TrendingVideo) models.AnalysisSummary {
	summary := models.AnalysisSummary{VideoCount: len(videos)}
	if len(videos) == 0 {
		return summary
	}

	var totalDuration int
	var totalEngagement float64
	var tags, categories []string

	for i := range videos {
		v := &videos[i]
		totalDuration += v.DurationSeconds
		totalEngagement += v.EngagementRate()
		tags = append(tags, v.Tags...)
		categories = append(categories, v.CategoryID)
	}

	summary.AverageDurationSeconds = float64(totalDuration) / float64(len(videos))
	summary.AverageEngagementRate = totalEngagement / float64(len(videos))

	for _, kc := range rankByFrequency(tags, 5) {
		summary.CommonTags = append(summary.CommonTags, models.TagCount{Tag: kc.key, Count: kc.count})
	}
	for _, kc := range rankByFrequency(categories, 3) {
		summary.TopCategories = append(summary.TopCategories, models.CategoryCount{CategoryID: kc.key, Count: kc.count})
	}

	top := make([]models.TrendingVideo, len(videos))
	copy(top, videos)
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Views != top[j].Views {
			return top[i].Views > top[j].Views
		}
		return top[i].EngagementRate() > top[j].EngagementRate()
	})
	if len(top) > 10 {
		top = top[:10]
	}
	summary.TopVideos = top

	return summary
}

type keyCount struct {
	key   string
	count int
	first int
}

// rankByFrequency counts occurrences and returns the n most frequent
// keys, most frequent first, first-seen first among equals. Empty keys
// are ignored.
func rankByFrequency(values []string, n int) []keyCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for i, v := range values {
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			firstSeen[v] = i
		}
		counts[v]++
	}

	ranked := make([]keyCount, 0, len(counts))
	for key, count := range counts {
		ranked = append(ranked, keyCount{key: key, count: count, first: firstSeen[key]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
