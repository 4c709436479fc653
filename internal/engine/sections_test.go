package engine

import (
	"reflect"
	"testing"

	"resumelift/internal/types"
)

func TestClassifyByContent(t *testing.T) {
	vocab := DefaultVocabulary()

	tests := []struct {
		name     string
		text     string
		expected types.SectionKind
	}{
		{
			name:     "date range implies experience",
			text:     "Acme Corp, Senior Engineer, 2019 - 2024\nBuilt the billing system",
			expected: types.SectionExperience,
		},
		{
			name:     "month date range implies experience",
			text:     "Beta Inc, Jan 2020 to Present",
			expected: types.SectionExperience,
		},
		{
			name:     "degree words imply education",
			text:     "Bachelor of Science in Physics, State University",
			expected: types.SectionEducation,
		},
		{
			name:     "comma token list implies skills",
			text:     "Go, Python, SQL, Docker, Kubernetes",
			expected: types.SectionSkills,
		},
		{
			name:     "plain prose stays unclassified",
			text:     "I enjoy solving hard problems and shipping software.",
			expected: types.SectionUnclassified,
		},
		{
			name:     "conflicting signals stay unclassified",
			text:     "University teaching assistant, 2018 - 2020",
			expected: types.SectionUnclassified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyByContent(tt.text, vocab); got != tt.expected {
				t.Errorf("classifyByContent(%q) = %q, expected %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestClassifyHeaderWins(t *testing.T) {
	vocab := DefaultVocabulary()

	// The text alone reads like a skill list, but the header says education.
	blocks := []Block{
		{Header: "EDUCATION", Kind: types.SectionEducation, Lines: []string{"Math, Physics, Chemistry, Biology"}},
	}
	sections := Classify(blocks, vocab)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Kind != types.SectionEducation {
		t.Errorf("expected header classification to win, got %q", sections[0].Kind)
	}
}

func TestDetectBullets(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		kind     types.SectionKind
		expected []string
	}{
		{
			name:     "dash and star markers",
			lines:    []string{"- built a service", "* shipped a feature", "plain line"},
			kind:     types.SectionExperience,
			expected: []string{"built a service", "shipped a feature"},
		},
		{
			name:     "numbered markers",
			lines:    []string{"1. first thing", "2) second thing"},
			kind:     types.SectionUnclassified,
			expected: []string{"first thing", "second thing"},
		},
		{
			name:     "experience without markers falls back to plain lines",
			lines:    []string{"Reduced costs by 30%", "", "Led the platform team"},
			kind:     types.SectionExperience,
			expected: []string{"Reduced costs by 30%", "Led the platform team"},
		},
		{
			name:     "non-experience without markers yields nothing",
			lines:    []string{"Some summary prose"},
			kind:     types.SectionSummary,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectBullets(tt.lines, tt.kind)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("detectBullets = %#v, expected %#v", got, tt.expected)
			}
		})
	}
}

func TestMissingCoreSections(t *testing.T) {
	tests := []struct {
		name     string
		sections []types.SectionBlock
		expected []types.SectionKind
	}{
		{
			name: "all present",
			sections: []types.SectionBlock{
				{Kind: types.SectionSummary},
				{Kind: types.SectionExperience},
				{Kind: types.SectionEducation},
				{Kind: types.SectionSkills},
			},
			expected: nil,
		},
		{
			name: "missing reported in canonical order",
			sections: []types.SectionBlock{
				{Kind: types.SectionSkills},
				{Kind: types.SectionUnclassified},
			},
			expected: []types.SectionKind{types.SectionSummary, types.SectionExperience, types.SectionEducation},
		},
		{
			name:     "nothing classified",
			sections: []types.SectionBlock{{Kind: types.SectionUnclassified}},
			expected: []types.SectionKind{types.SectionSummary, types.SectionExperience, types.SectionEducation, types.SectionSkills},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := missingCoreSections(tt.sections)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("missingCoreSections = %#v, expected %#v", got, tt.expected)
			}
		})
	}
}

func TestLooksLikeSkillList(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "comma list", text: "Go, Python, SQL, Docker", expected: true},
		{name: "pipe list", text: "Go | Python | SQL | Docker", expected: true},
		{name: "too few separators", text: "Go, Python", expected: false},
		{name: "prose with commas", text: "I worked on billing, payments, and fraud. Then I moved to infra, storage, and tooling.", expected: false},
		{name: "too many lines", text: "a, b\nc, d\ne, f\ng, h", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeSkillList(tt.text); got != tt.expected {
				t.Errorf("looksLikeSkillList(%q) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}
