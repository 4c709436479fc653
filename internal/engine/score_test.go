package engine

import (
	"testing"

	"resumelift/internal/types"
)

func completeSections(experienceBullets []string) []types.SectionBlock {
	return []types.SectionBlock{
		{Kind: types.SectionSummary, Header: "Summary", Text: "Engineer."},
		{Kind: types.SectionExperience, Header: "Experience", Bullets: experienceBullets},
		{Kind: types.SectionEducation, Header: "Education", Text: "B.S. Computer Science"},
		{Kind: types.SectionSkills, Header: "Skills", Text: "Go, SQL, Docker"},
	}
}

func TestScoreCompleteResumeWithAlignment(t *testing.T) {
	// Structurally complete, 3 quantified bullets, 400 words, 80% alignment.
	sections := completeSections([]string{
		"Reduced costs by 30% across the platform",
		"Managed a team of 12 engineers",
		"Increased revenue by $2M",
		"Shipped the dashboard redesign",
	})
	alignment := 0.8

	score, breakdown := Score(sections, 400, &alignment, DefaultTuning())

	if breakdown.Structure != 100 {
		t.Errorf("structure = %v, expected 100", breakdown.Structure)
	}
	if breakdown.Quantification != 60 {
		t.Errorf("quantification = %v, expected 60", breakdown.Quantification)
	}
	if breakdown.Length != 100 {
		t.Errorf("length = %v, expected 100", breakdown.Length)
	}
	if breakdown.KeywordAlignment == nil || *breakdown.KeywordAlignment != 80 {
		t.Errorf("keyword alignment = %v, expected 80", breakdown.KeywordAlignment)
	}
	if score != 85 {
		t.Errorf("aggregate = %v, expected 85", score)
	}
}

func TestScoreWithoutAlignmentRenormalizes(t *testing.T) {
	// Three criteria at 100, 0, 100 average to 66.7 over weight 75, not 50
	// over weight 100.
	sections := completeSections(nil)

	score, breakdown := Score(sections, 400, nil, DefaultTuning())

	if breakdown.KeywordAlignment != nil {
		t.Errorf("expected no keyword alignment entry, got %v", *breakdown.KeywordAlignment)
	}
	if score != 66.7 {
		t.Errorf("aggregate = %v, expected 66.7", score)
	}
}

func TestScoreBareInput(t *testing.T) {
	sections := []types.SectionBlock{
		{Kind: types.SectionUnclassified, Text: "John Smith. Software developer since 2019."},
	}

	score, breakdown := Score(sections, 8, nil, DefaultTuning())

	if breakdown.Structure != 0 || breakdown.Quantification != 0 {
		t.Errorf("expected zero structure and quantification, got %v and %v",
			breakdown.Structure, breakdown.Quantification)
	}
	if breakdown.Length != 10 {
		t.Errorf("length = %v, expected 10", breakdown.Length)
	}
	if score != 3.3 {
		t.Errorf("aggregate = %v, expected 3.3", score)
	}
}

func TestScoreBounds(t *testing.T) {
	tests := []struct {
		name      string
		sections  []types.SectionBlock
		wordCount int
		alignment *float64
	}{
		{name: "empty sections", sections: nil, wordCount: 0},
		{name: "everything maxed", sections: completeSections([]string{
			"Cut costs 10%", "Cut costs 20%", "Cut costs 30%", "Cut costs 40%",
			"Cut costs 50%", "Cut costs 60%",
		}), wordCount: 500, alignment: ptr(1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := Score(tt.sections, tt.wordCount, tt.alignment, DefaultTuning())
			if score < 0 || score > 100 {
				t.Errorf("aggregate %v outside [0,100]", score)
			}
		})
	}
}

func TestQuantificationSaturates(t *testing.T) {
	five := completeSections([]string{
		"Cut costs 10%", "Cut costs 20%", "Cut costs 30%", "Cut costs 40%", "Cut costs 50%",
	})
	ten := completeSections([]string{
		"Cut costs 10%", "Cut costs 20%", "Cut costs 30%", "Cut costs 40%", "Cut costs 50%",
		"Cut costs 60%", "Cut costs 70%", "Cut costs 80%", "Cut costs 90%", "Cut costs 99%",
	})

	tuning := DefaultTuning()
	atCap := quantificationScore(five, tuning)
	pastCap := quantificationScore(ten, tuning)

	if atCap != 100 {
		t.Errorf("score at saturation = %v, expected 100", atCap)
	}
	if pastCap != atCap {
		t.Errorf("score past saturation = %v, expected %v", pastCap, atCap)
	}
}

func TestCountQuantifiedBullets(t *testing.T) {
	tests := []struct {
		name     string
		bullets  []string
		expected int
	}{
		{
			name:     "percent dollar and count units",
			bullets:  []string{"Grew revenue 25%", "Saved $40,000", "Mentored 3 engineers", "Wrote documentation"},
			expected: 3,
		},
		{
			name:     "bare numbers without units do not count",
			bullets:  []string{"Worked on version 2 of the product", "Used 3 libraries"},
			expected: 0,
		},
		{
			name:     "duration counts",
			bullets:  []string{"Ran the migration over 6 months"},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := []types.SectionBlock{
				{Kind: types.SectionExperience, Bullets: tt.bullets},
				{Kind: types.SectionSkills, Bullets: []string{"Saved $9M"}},
			}
			if got := countQuantifiedBullets(sections); got != tt.expected {
				t.Errorf("countQuantifiedBullets = %d, expected %d (skills bullets must not count)", got, tt.expected)
			}
		})
	}
}

func TestLengthScoreBands(t *testing.T) {
	tuning := DefaultTuning()

	tests := []struct {
		words    int
		expected float64
	}{
		{words: 10, expected: 10},
		{words: 49, expected: 10},
		{words: 50, expected: 30},
		{words: 99, expected: 30},
		{words: 100, expected: 45},
		{words: 199, expected: 45},
		{words: 200, expected: 70},
		{words: 299, expected: 70},
		{words: 300, expected: 100},
		{words: 800, expected: 100},
		{words: 801, expected: 85},
		{words: 1000, expected: 85},
		{words: 1001, expected: 60},
		{words: 1500, expected: 60},
		{words: 1501, expected: 40},
	}

	for _, tt := range tests {
		if got := lengthScore(tt.words, tuning); got != tt.expected {
			t.Errorf("lengthScore(%d) = %v, expected %v", tt.words, got, tt.expected)
		}
	}
}

func ptr(v float64) *float64 {
	return &v
}
