package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"autoreel/internal/models"
	"autoreel/shared/config"

	"google.golang.org/genai"
)

// Prompter turns a topic, tone, length and optional story summary into
// a short text-to-video prompt plus hashtag candidates.
type Prompter struct {
	client      *genai.Client
	model       string
	temperature float32
}

const promptWriterRole = "You are an expert at writing concise, vivid prompts for text-to-video AI models."

func NewPrompter(ctx context.Context, cfg *config.AIConfig) (*Prompter, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Prompter{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}, nil
}

type ContentRequest struct {
	Topic        string
	ContentKind  string
	Tone         string
	Length       string
	StorySummary string
	Analysis     *models.AnalysisSummary
}

// GenerateContent asks the model for a single 1-2 sentence video prompt
// and derives the duration bucket and tags locally. Completion errors
// are returned to the caller; nothing here degrades silently.
func (p *Prompter) GenerateContent(ctx context.Context, req ContentRequest) (*models.GeneratedContent, error) {
	if strings.TrimSpace(req.Topic) == "" && strings.TrimSpace(req.StorySummary) == "" {
		return nil, fmt.Errorf("a topic or a story summary is required")
	}

	instruction := buildPromptInstruction(req)

	parts := []*genai.Part{
		genai.NewPartFromText(instruction),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, p.generateConfig(promptWriterRole))
	if err != nil {
		return nil, fmt.Errorf("failed to generate video prompt: %w", err)
	}

	responseText := result.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty completion for topic %q", req.Topic)
	}

	return &models.GeneratedContent{
		VideoPrompt: cleanPrompt(responseText),
		VideoLength: LengthToDuration(req.Length),
		Tags:        ExtractTags(req.Topic, req.StorySummary),
	}, nil
}

// TopicAnalysis is the model's read on what a set of trending videos has
// in common.
type TopicAnalysis struct {
	CommonThemes   []string `json:"common_themes"`
	ContentFormats []string `json:"content_formats"`
	TitlePatterns  []string `json:"title_patterns"`
	SuccessFactors []string `json:"success_factors"`
}

// AnalyzeTopics sends trending titles and descriptions to the model and
// parses the themes it identifies.
func (p *Prompter) AnalyzeTopics(ctx context.Context, videos []models.TrendingVideo) (*TopicAnalysis, error) {
	if len(videos) == 0 {
		return nil, fmt.Errorf("no videos to analyze")
	}

	var titles, descriptions []string
	for i := range videos {
		titles = append(titles, videos[i].Title)
		descriptions = append(descriptions, videos[i].Description)
	}

	instruction := fmt.Sprintf(`Analyze the following trending YouTube video titles and descriptions to identify:
1. Common themes and topics
2. Popular content formats
3. Engaging title patterns
4. Key elements that make these videos successful

Video Titles:
%s

Video Descriptions:
%s

Provide a detailed analysis in JSON format with the following structure:
{
  "common_themes": [],
  "content_formats": [],
  "title_patterns": [],
  "success_factors": []
}`, strings.Join(titles, "\n"), strings.Join(descriptions, "\n"))

	parts := []*genai.Part{
		genai.NewPartFromText(instruction),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents,
		p.generateConfig("You are a content analysis expert specializing in YouTube trends."))
	if err != nil {
		return nil, fmt.Errorf("failed to analyze trending topics: %w", err)
	}

	responseText := result.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty topic analysis response")
	}

	analysis, err := parseTopicAnalysis(responseText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse topic analysis: %w", err)
	}

	return analysis, nil
}

func (p *Prompter) generateConfig(systemInstruction string) *genai.GenerateContentConfig {
	temperature := p.temperature
	return &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}
}

func buildPromptInstruction(req ContentRequest) string {
	var sb strings.Builder

	sb.WriteString("Given the following information:\n")
	fmt.Fprintf(&sb, "- Topic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "- Tone: %s\n", req.Tone)
	fmt.Fprintf(&sb, "- Length: %s\n", req.Length)
	fmt.Fprintf(&sb, "- Story Summary: %s\n", req.StorySummary)
	if req.Analysis != nil && len(req.Analysis.CommonTags) > 0 {
		var tags []string
		for _, tc := range req.Analysis.CommonTags {
			tags = append(tags, tc.Tag)
		}
		fmt.Fprintf(&sb, "- Trending Tags: %s\n", strings.Join(tags, ", "))
	}
	sb.WriteString("Write a single, vivid, and engaging 1-2 sentence prompt for a text-to-video AI model. ")
	sb.WriteString("Do NOT write a full story or script. Focus on the main visual and emotional concept, using descriptive language. ")
	sb.WriteString("Avoid scene breakdowns or dialogue. ")
	sb.WriteString("Example: 'A mother lovingly chases her child through a sunlit village street, with trees and a temple in the background.'")

	return sb.String()
}

// cleanPrompt trims the completion and folds embedded newlines into
// spaces so the prompt arrives at the video backend as one line.
func cleanPrompt(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
}

// parseTopicAnalysis extracts the first JSON object in the response.
// Models tend to wrap JSON in prose or code fences.
func parseTopicAnalysis(response string) (*TopicAnalysis, error) {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no JSON found in response: %s", response)
	}

	var analysis TopicAnalysis
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal topic analysis: %w", err)
	}

	return &analysis, nil
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// ExtractTags builds hashtag candidates: comma-separated topic entries
// first, then summary words longer than three characters lower-cased,
// deduplicated in first-seen order and capped at five.
func ExtractTags(topic, summary string) []string {
	var tags []string

	if topic != "" {
		for _, t := range strings.Split(topic, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	if summary != "" {
		for _, word := range wordPattern.FindAllString(summary, -1) {
			lower := strings.ToLower(word)
			if len(word) > 3 && !containsTag(tags, lower) {
				tags = append(tags, lower)
			}
		}
	}

	seen := make(map[string]bool, len(tags))
	deduped := make([]string, 0, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			deduped = append(deduped, t)
		}
	}

	if len(deduped) > 5 {
		deduped = deduped[:5]
	}
	return deduped
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// LengthToDuration maps a requested length to a duration bucket in
// seconds. Unknown lengths fall back to one minute.
func LengthToDuration(length string) string {
	switch strings.ToLower(length) {
	case "short":
		return "30"
	case "medium":
		return "60"
	case "long":
		return "120"
	default:
		return "60"
	}
}

// DurationLabels maps duration buckets to their display labels.
var DurationLabels = map[string]string{
	"30":  "30 seconds",
	"60":  "1 minute",
	"90":  "1.5 minutes",
	"120": "2 minutes",
	"180": "3 minutes",
	"300": "5 minutes",
}

// DurationOrder lists the buckets shortest first for display.
var DurationOrder = []string{"30", "60", "90", "120", "180", "300"}

var durationFrames = map[string]int{
	"30":  16,
	"60":  25,
	"90":  25,
	"120": 25,
	"180": 25,
	"300": 25,
}

// FramesForDuration maps a duration bucket to the frame count submitted
// to the video backend. Unknown buckets use the smallest clip size.
func FramesForDuration(duration string) int {
	if frames, ok := durationFrames[duration]; ok {
		return frames
	}
	return 16
}

// DurationLabel resolves a bucket to its label, falling back to the raw
// seconds value.
func DurationLabel(duration string) string {
	if label, ok := DurationLabels[duration]; ok {
		return label
	}
	return duration + " seconds"
}
