package engine

import (
	"strings"
	"testing"

	"resumelift/internal/types"
)

func TestSuggestNeverEmpty(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	tests := []struct {
		name      string
		aggregate float64
		breakdown types.ScoreBreakdown
		expected  string
	}{
		{
			name:      "excellent resume gets affirming suggestion",
			aggregate: 95,
			breakdown: types.ScoreBreakdown{Structure: 100, Quantification: 100, Length: 100},
			expected:  "Excellent resume",
		},
		{
			name:      "good but not excellent gets foundation suggestion",
			aggregate: 80,
			breakdown: types.ScoreBreakdown{Structure: 100, Quantification: 80, Length: 100},
			expected:  "Solid foundation",
		},
	}

	sections := completeSections(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.aggregate, tt.breakdown, sections, nil, 400,
				types.OptimizationGeneral, vocab, tuning)
			if len(got) != 1 {
				t.Fatalf("expected exactly one suggestion, got %d: %#v", len(got), got)
			}
			if !strings.HasPrefix(got[0], tt.expected) {
				t.Errorf("suggestion %q, expected prefix %q", got[0], tt.expected)
			}
		})
	}
}

func TestSuggestWorstCriterionFirst(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	// Quantification (0) is worse than structure (50); its suggestion sorts
	// first under the default mode.
	sections := []types.SectionBlock{
		{Kind: types.SectionExperience, Header: "Experience", Bullets: []string{"Built things"}},
		{Kind: types.SectionSkills, Header: "Skills", Text: "Go, SQL"},
	}
	breakdown := types.ScoreBreakdown{Structure: 50, Quantification: 0, Length: 100}

	got := Suggest(50, breakdown, sections, nil, 400, types.OptimizationGeneral, vocab, tuning)
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	if !strings.Contains(got[0], "measurable outcomes") {
		t.Errorf("expected the quantification suggestion first, got %q", got[0])
	}
}

func TestSuggestModeEmphasis(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	sections := []types.SectionBlock{
		{Kind: types.SectionExperience, Header: "Experience", Bullets: []string{"Built things"}},
		{Kind: types.SectionSkills, Header: "Skills", Text: "Go, SQL"},
	}
	alignment := 40.0
	breakdown := types.ScoreBreakdown{
		Structure:        50,
		Quantification:   0,
		Length:           100,
		KeywordAlignment: &alignment,
	}
	missing := []string{"terraform", "kafka", "redis", "spark"}

	tests := []struct {
		mode     types.OptimizationType
		expected string
	}{
		{mode: types.OptimizationATS, expected: "Add a dedicated"},
		{mode: types.OptimizationKeywords, expected: "Incorporate missing job keywords"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := Suggest(45, breakdown, sections, missing, 400, tt.mode, vocab, tuning)
			if len(got) == 0 {
				t.Fatal("expected suggestions")
			}
			if !strings.HasPrefix(got[0], tt.expected) {
				t.Errorf("mode %s: first suggestion %q, expected prefix %q", tt.mode, got[0], tt.expected)
			}
		})
	}
}

func TestSuggestKeywordsNamesTopThreeMissing(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	alignment := 20.0
	breakdown := types.ScoreBreakdown{Structure: 100, Quantification: 100, Length: 100, KeywordAlignment: &alignment}
	missing := []string{"terraform", "kafka", "redis", "spark"}

	got := Suggest(80, breakdown, completeSections(nil), missing, 400,
		types.OptimizationGeneral, vocab, tuning)
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	if !strings.Contains(got[0], "terraform, kafka, redis") {
		t.Errorf("expected top three missing keywords named, got %q", got[0])
	}
	if strings.Contains(got[0], "spark") {
		t.Errorf("expected only three keywords named, got %q", got[0])
	}
}

func TestSuggestCapped(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()
	tuning.MaxSuggestions = 2

	// Everything is wrong: four missing sections, no quantification, bad
	// alignment, too short, weak phrasing.
	sections := []types.SectionBlock{
		{Kind: types.SectionUnclassified, Text: "responsible for the website and helped with testing"},
	}
	alignment := 10.0
	breakdown := types.ScoreBreakdown{Structure: 0, Quantification: 0, Length: 30, KeywordAlignment: &alignment}

	got := Suggest(10, breakdown, sections, []string{"go"}, 60, types.OptimizationGeneral, vocab, tuning)
	if len(got) != 2 {
		t.Errorf("expected %d suggestions, got %d: %#v", tuning.MaxSuggestions, len(got), got)
	}
}

func TestSuggestWeakPhraseAnchorIndependent(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	// The weak-phrase suggestion sorts on its own fixed anchor, not on any
	// criterion's sub-score. With structure failing hard (25) the structure
	// suggestions outrank it; with structure perfect it still surfaces ahead
	// of nothing-at-all because length (60) is the only worse criterion.
	weakSections := []types.SectionBlock{
		{Kind: types.SectionExperience, Header: "Experience", Text: "Responsible for the platform"},
	}

	low := types.ScoreBreakdown{Structure: 25, Quantification: 100, Length: 100}
	got := Suggest(60, low, weakSections, nil, 400, types.OptimizationGeneral, vocab, tuning)
	if len(got) < 2 {
		t.Fatalf("expected structure and weak-phrase suggestions, got %#v", got)
	}
	if !strings.HasPrefix(got[0], "Add a dedicated") {
		t.Errorf("failing structure should outrank the weak-phrase anchor, got %q first", got[0])
	}

	high := types.ScoreBreakdown{Structure: 100, Quantification: 100, Length: 60}
	got = Suggest(85, high, weakSections, nil, 1200, types.OptimizationGeneral, vocab, tuning)
	if len(got) < 2 {
		t.Fatalf("expected weak-phrase and length suggestions, got %#v", got)
	}
	if !strings.Contains(got[0], "weak phrases") {
		t.Errorf("weak-phrase anchor (50) should outrank length (60), got %q first", got[0])
	}
}

func TestFindWeakPhrases(t *testing.T) {
	vocab := DefaultVocabulary()

	sections := []types.SectionBlock{
		{Kind: types.SectionExperience, Text: "Responsible for the platform. Worked with designers."},
	}
	got := findWeakPhrases(sections, vocab)
	if len(got) != 2 {
		t.Fatalf("expected 2 weak phrases, got %d: %#v", len(got), got)
	}
	if !strings.Contains(got[0], "responsible for") {
		t.Errorf("expected responsible-for first, got %q", got[0])
	}
}
