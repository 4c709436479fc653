package engine

import (
	"reflect"
	"testing"

	"resumelift/internal/errors"
	"resumelift/internal/types"
)

func TestNormalizeEmptyInput(t *testing.T) {
	vocab := DefaultVocabulary()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "spaces only", input: "   "},
		{name: "newlines and tabs only", input: "\n\t\n  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input, vocab)
			if err == nil {
				t.Fatal("expected error for blank input, got nil")
			}
			if !errors.IsEmptyContent(err) {
				t.Errorf("expected empty content error, got %v", err)
			}
		})
	}
}

func TestNormalizeSegmentation(t *testing.T) {
	vocab := DefaultVocabulary()

	tests := []struct {
		name     string
		input    string
		expected []Block
	}{
		{
			name:  "headers open new blocks",
			input: "EXPERIENCE\nAcme Corp\n- Built things\nSKILLS\nGo, SQL",
			expected: []Block{
				{Header: "EXPERIENCE", Kind: types.SectionExperience, Lines: []string{"Acme Corp", "- Built things"}},
				{Header: "SKILLS", Kind: types.SectionSkills, Lines: []string{"Go, SQL"}},
			},
		},
		{
			name:  "header with trailing colon",
			input: "Experience:\nAcme Corp",
			expected: []Block{
				{Header: "Experience", Kind: types.SectionExperience, Lines: []string{"Acme Corp"}},
			},
		},
		{
			name:  "blank lines split headerless blocks",
			input: "First paragraph here.\n\nSecond paragraph here.",
			expected: []Block{
				{Kind: types.SectionUnclassified, Lines: []string{"First paragraph here."}},
				{Kind: types.SectionUnclassified, Lines: []string{"Second paragraph here."}},
			},
		},
		{
			name:  "blank lines inside headed block separate paragraphs",
			input: "EXPERIENCE\nAcme Corp\n\nBeta Inc",
			expected: []Block{
				{Header: "EXPERIENCE", Kind: types.SectionExperience, Lines: []string{"Acme Corp", "", "Beta Inc"}},
			},
		},
		{
			name:  "crlf line endings",
			input: "SKILLS\r\nGo, SQL\r\n",
			expected: []Block{
				{Header: "SKILLS", Kind: types.SectionSkills, Lines: []string{"Go, SQL"}},
			},
		},
		{
			name:  "long line is not a header",
			input: "experience shows that hard work pays off over time",
			expected: []Block{
				{Kind: types.SectionUnclassified, Lines: []string{"experience shows that hard work pays off over time"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := Normalize(tt.input, vocab)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(blocks, tt.expected) {
				t.Errorf("blocks mismatch\ngot:      %#v\nexpected: %#v", blocks, tt.expected)
			}
		})
	}
}

func TestNormalizeAlwaysYieldsBlocks(t *testing.T) {
	vocab := DefaultVocabulary()
	blocks, err := Normalize("just one line", vocab)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) == 0 {
		t.Error("expected at least one block for non-blank input")
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "single word", input: "hello", expected: 1},
		{name: "multiple spaces", input: "one   two\tthree\nfour", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.input); got != tt.expected {
				t.Errorf("WordCount(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "terminal punctuation preserved",
			input:    "I built tools. Did it help? It shipped!",
			expected: []string{"I built tools.", "Did it help?", "It shipped!"},
		},
		{
			name:     "trailing fragment without punctuation",
			input:    "First sentence. trailing fragment",
			expected: []string{"First sentence.", "trailing fragment"},
		},
		{
			name:     "blank input",
			input:    "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitSentences(%q) = %#v, expected %#v", tt.input, got, tt.expected)
			}
		})
	}
}

func BenchmarkNormalize(b *testing.B) {
	vocab := DefaultVocabulary()
	input := "PROFESSIONAL SUMMARY\nEngineer with experience.\n\nEXPERIENCE\nAcme Corp, 2019 - 2024\n- Reduced latency by 40%\n\nSKILLS\nGo, SQL, Docker, AWS\n"
	for b.Loop() {
		if _, err := Normalize(input, vocab); err != nil {
			b.Fatal(err)
		}
	}
}
