package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"autoreel/internal/models"
	"autoreel/trends"
)

// Render writes an HTML report of a trending analysis. The duration
// window in the takeaways brackets the average at 80% and 120%.
func Render(w io.Writer, summary *models.AnalysisSummary) error {
	if summary == nil {
		return fmt.Errorf("summary cannot be nil")
	}

	tmpl := template.New("report").Funcs(template.FuncMap{
		"div": func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return a / b
		},
		"mul":     func(a, b float64) float64 { return a * b },
		"float64": func(i int) float64 { return float64(i) },
	})

	tmpl, err := tmpl.Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse report template: %w", err)
	}

	if err := tmpl.Execute(w, buildReportData(summary)); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	return nil
}

type reportData struct {
	GeneratedAt     string
	VideoCount      int
	AverageDuration string
	EngagementPct   string
	Categories      []categoryRow
	Tags            []models.TagCount
	Videos          []videoRow
	DurationMin     string
	DurationMax     string
	TopCategory     string
	TopTags         []models.TagCount
}

type categoryRow struct {
	Name  string
	Count int
}

type videoRow struct {
	Title        string
	ChannelTitle string
	Views        int64
	Duration     string
	Engagement   string
	URL          string
}

func buildReportData(summary *models.AnalysisSummary) reportData {
	data := reportData{
		GeneratedAt:     time.Now().Format("Jan 2, 2006 15:04"),
		VideoCount:      summary.VideoCount,
		AverageDuration: models.FormatDuration(int(summary.AverageDurationSeconds)),
		EngagementPct:   fmt.Sprintf("%.2f%%", summary.AverageEngagementRate*100),
		Tags:            summary.CommonTags,
		DurationMin:     models.FormatDuration(int(summary.AverageDurationSeconds * 0.8)),
		DurationMax:     models.FormatDuration(int(summary.AverageDurationSeconds * 1.2)),
	}

	for _, cc := range summary.TopCategories {
		data.Categories = append(data.Categories, categoryRow{
			Name:  trends.CategoryName(cc.CategoryID),
			Count: cc.Count,
		})
	}
	if len(data.Categories) > 0 {
		data.TopCategory = data.Categories[0].Name
	}

	for i := range summary.TopVideos {
		v := &summary.TopVideos[i]
		data.Videos = append(data.Videos, videoRow{
			Title:        v.Title,
			ChannelTitle: v.ChannelTitle,
			Views:        v.Views,
			Duration:     models.FormatDuration(v.DurationSeconds),
			Engagement:   fmt.Sprintf("%.2f%%", v.EngagementRate()*100),
			URL:          v.URL,
		})
	}

	if len(summary.CommonTags) > 3 {
		data.TopTags = summary.CommonTags[:3]
	} else {
		data.TopTags = summary.CommonTags
	}

	return data
}

const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Trending Content Analysis</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #202124; }
h1 { font-size: 22px; }
h2 { font-size: 16px; margin-top: 28px; border-bottom: 1px solid #dadce0; padding-bottom: 4px; }
table { border-collapse: collapse; width: 100%; margin-top: 8px; }
th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #eee; font-size: 13px; }
th { background: #f8f9fa; }
.metric { display: inline-block; margin-right: 32px; }
.metric .value { font-size: 20px; font-weight: bold; }
.metric .label { font-size: 12px; color: #5f6368; }
ul { margin: 8px 0; }
li { font-size: 13px; margin: 2px 0; }
.footer { margin-top: 32px; font-size: 11px; color: #5f6368; }
</style>
</head>
<body>
<h1>Trending Content Analysis</h1>
<p>Generated {{.GeneratedAt}} over {{.VideoCount}} videos.</p>

<div>
<span class="metric"><span class="value">{{.AverageDuration}}</span><br><span class="label">Average Duration</span></span>
<span class="metric"><span class="value">{{.EngagementPct}}</span><br><span class="label">Average Engagement Rate</span></span>
</div>

<h2>Top Categories</h2>
<ul>
{{range .Categories}}<li>{{.Name}}: {{.Count}} videos</li>
{{else}}<li>No category data</li>
{{end}}</ul>

<h2>Common Tags</h2>
<ul>
{{range .Tags}}<li>#{{.Tag}}: {{.Count}} times</li>
{{else}}<li>No tag data</li>
{{end}}</ul>

<h2>Top Videos</h2>
<table>
<tr><th>Title</th><th>Channel</th><th>Views</th><th>Duration</th><th>Engagement</th></tr>
{{range .Videos}}<tr><td><a href="{{.URL}}">{{.Title}}</a></td><td>{{.ChannelTitle}}</td><td>{{.Views}}</td><td>{{.Duration}}</td><td>{{.Engagement}}</td></tr>
{{end}}</table>

<h2>Key Takeaways</h2>
<ul>
<li>Optimal video duration: {{.DurationMin}} to {{.DurationMax}}</li>
{{if .TopCategory}}<li>Most popular category: {{.TopCategory}}</li>{{end}}
{{if .TopTags}}<li>Recommended tags: {{range $i, $t := .TopTags}}{{if $i}}, {{end}}#{{$t.Tag}}{{end}}</li>{{end}}
<li>Target engagement rate: &gt; {{.EngagementPct}}</li>
</ul>

<div class="footer">autoreel trending analysis</div>
</body>
</html>
`
