package generation

import (
	"reflect"
	"strings"
	"testing"

	"autoreel/internal/models"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name     string
		topic    string
		summary  string
		expected []string
	}{
		{
			name:     "Comma separated topic",
			topic:    "AI, Robotics , Future",
			expected: []string{"AI", "Robotics", "Future"},
		},
		{
			name:     "Summary words longer than three characters",
			topic:    "",
			summary:  "The quick brown fox jumps",
			expected: []string{"quick", "brown", "jumps"},
		},
		{
			name:    "Topic keeps its case, summary words are lowered",
			topic:   "Space",
			summary: "Space exploration",
			// "Space" and "space" are distinct tags; dedup is exact.
			expected: []string{"Space", "space", "exploration"},
		},
		{
			name:     "Capped at five",
			topic:    "a,b,c",
			summary:  "alpha bravo charlie delta",
			expected: []string{"a", "b", "c", "alpha", "bravo"},
		},
		{
			name:     "Duplicate topic entries collapse",
			topic:    "go, go, tips",
			expected: []string{"go", "tips"},
		},
		{
			name:     "Repeated summary words collapse",
			topic:    "",
			summary:  "rain rain heavy rain",
			expected: []string{"rain", "heavy"},
		},
		{
			name:     "Empty input",
			topic:    "",
			summary:  "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTags(tt.topic, tt.summary)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractTags(%q, %q) = %v, want %v", tt.topic, tt.summary, got, tt.expected)
			}
		})
	}
}

func TestLengthToDuration(t *testing.T) {
	tests := []struct {
		name     string
		length   string
		expected string
	}{
		{"Short", "Short", "30"},
		{"Lowercase short", "short", "30"},
		{"Medium", "Medium", "60"},
		{"Long", "Long", "120"},
		{"Empty defaults to a minute", "", "60"},
		{"Unknown defaults to a minute", "Epic", "60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LengthToDuration(tt.length); got != tt.expected {
				t.Errorf("LengthToDuration(%q) = %q, want %q", tt.length, got, tt.expected)
			}
		})
	}
}

func TestFramesForDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		expected int
	}{
		{"Thirty seconds is a short clip", "30", 16},
		{"One minute uses the full budget", "60", 25},
		{"Two minutes uses the full budget", "120", 25},
		{"Unknown bucket plays safe", "45", 16},
		{"Empty bucket plays safe", "", 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FramesForDuration(tt.duration); got != tt.expected {
				t.Errorf("FramesForDuration(%q) = %d, want %d", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestDurationLabel(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		expected string
	}{
		{"Known bucket", "30", "30 seconds"},
		{"One minute", "60", "1 minute"},
		{"Unlisted bucket falls back to raw seconds", "45", "45 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DurationLabel(tt.duration); got != tt.expected {
				t.Errorf("DurationLabel(%q) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestCleanPrompt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Trims whitespace", "  A scene.  ", "A scene."},
		{"Folds newlines", "A scene.\nAnother line.", "A scene. Another line."},
		{"Both", " A scene.\nMore.\n ", "A scene. More."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanPrompt(tt.input); got != tt.expected {
				t.Errorf("cleanPrompt(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildPromptInstruction(t *testing.T) {
	req := ContentRequest{
		Topic:        "Monsoon in Mumbai",
		Tone:         "Dramatic",
		Length:       "Short",
		StorySummary: "A city slows down under heavy rain",
	}

	instruction := buildPromptInstruction(req)

	for _, want := range []string{
		"Topic: Monsoon in Mumbai",
		"Tone: Dramatic",
		"Length: Short",
		"Story Summary: A city slows down under heavy rain",
		"1-2 sentence prompt",
		"Avoid scene breakdowns or dialogue.",
	} {
		if !strings.Contains(instruction, want) {
			t.Errorf("Instruction missing %q:\n%s", want, instruction)
		}
	}

	if strings.Contains(instruction, "Trending Tags") {
		t.Error("Instruction mentions trending tags without an analysis")
	}
}

func TestBuildPromptInstructionWithAnalysis(t *testing.T) {
	req := ContentRequest{
		Topic: "Street food",
		Analysis: &models.AnalysisSummary{
			CommonTags: []models.TagCount{
				{Tag: "food", Count: 5},
				{Tag: "india", Count: 3},
			},
		},
	}

	instruction := buildPromptInstruction(req)

	if !strings.Contains(instruction, "Trending Tags: food, india") {
		t.Errorf("Instruction missing trending tags:\n%s", instruction)
	}
}

func TestParseTopicAnalysis(t *testing.T) {
	t.Run("JSONWrappedInProse", func(t *testing.T) {
		response := "Here is the analysis you asked for:\n```json\n" +
			`{"common_themes": ["festivals"], "content_formats": ["shorts"], "title_patterns": ["question hooks"], "success_factors": ["timing"]}` +
			"\n```\nLet me know if you need more."

		analysis, err := parseTopicAnalysis(response)
		if err != nil {
			t.Fatalf("parseTopicAnalysis failed: %v", err)
		}

		if len(analysis.CommonThemes) != 1 || analysis.CommonThemes[0] != "festivals" {
			t.Errorf("CommonThemes = %v, want [festivals]", analysis.CommonThemes)
		}
		if len(analysis.SuccessFactors) != 1 || analysis.SuccessFactors[0] != "timing" {
			t.Errorf("SuccessFactors = %v, want [timing]", analysis.SuccessFactors)
		}
	})

	t.Run("NoJSON", func(t *testing.T) {
		_, err := parseTopicAnalysis("I could not produce an analysis.")
		if err == nil {
			t.Error("Expected error when the response has no JSON")
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := parseTopicAnalysis(`{"common_themes": [unquoted]}`)
		if err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}
