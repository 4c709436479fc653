package engine

import (
	"strings"
	"testing"

	"resumelift/internal/types"
)

func classifyText(t *testing.T, raw string, vocab *Vocabulary) []types.SectionBlock {
	t.Helper()
	blocks, err := Normalize(raw, vocab)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	return Classify(blocks, vocab)
}

func TestRewriteExpandsShortInput(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	raw := "Software developer. I made websites for clients. Helped with testing."
	sections := classifyText(t, raw, vocab)
	keywords := ExtractKeywords(raw, vocab)

	out := Rewrite(sections, keywords, nil, WordCount(raw), types.OptimizationGeneral, vocab, tuning)

	if WordCount(out) < WordCount(raw) {
		t.Errorf("expansion shrank content: %d words from %d", WordCount(out), WordCount(raw))
	}
	// Original sentences must survive verbatim, weak words and all.
	for _, sentence := range []string{
		"Software developer.",
		"I made websites for clients.",
		"Helped with testing.",
	} {
		if !strings.Contains(out, sentence) {
			t.Errorf("expanded output missing original sentence %q", sentence)
		}
	}
	for _, header := range []string{"PROFESSIONAL SUMMARY", "EXPERIENCE", "SKILLS", "EDUCATION"} {
		if !strings.Contains(out, header) {
			t.Errorf("expanded output missing %s header", header)
		}
	}
}

func TestRewriteShortButCompleteSkipsExpansion(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	raw := "SUMMARY\nEngineer.\n\nEXPERIENCE\n- Built tools, 2019 - 2024\n\nEDUCATION\nB.S. Physics\n\nSKILLS\nGo, SQL, C, Rust"
	sections := classifyText(t, raw, vocab)

	out := Rewrite(sections, nil, nil, WordCount(raw), types.OptimizationGeneral, vocab, tuning)
	if strings.Contains(out, "Motivated professional") {
		t.Error("structurally complete resume must not be expanded")
	}
}

func TestRewriteReplacesWeakWords(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	raw := "SUMMARY\nEngineer.\n\nEXPERIENCE\n- Responsible for the billing platform, 2019 - 2024\n- Worked with designers on the checkout flow\n\nEDUCATION\nB.S. Physics\n\nSKILLS\nGo, SQL, C, Rust"
	sections := classifyText(t, raw, vocab)

	tests := []struct {
		mode        types.OptimizationType
		wantReplace bool
	}{
		{mode: types.OptimizationGeneral, wantReplace: true},
		{mode: types.OptimizationATS, wantReplace: true},
		{mode: types.OptimizationKeywords, wantReplace: false},
		{mode: types.OptimizationFormat, wantReplace: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			out := Rewrite(sections, nil, nil, 200, tt.mode, vocab, tuning)
			replaced := strings.Contains(out, "Managed the billing platform") &&
				strings.Contains(out, "Collaborated with designers")
			kept := strings.Contains(out, "Responsible for the billing platform")
			if tt.wantReplace && !replaced {
				t.Errorf("mode %s: expected weak phrases replaced, got:\n%s", tt.mode, out)
			}
			if !tt.wantReplace && !kept {
				t.Errorf("mode %s: expected original phrasing kept, got:\n%s", tt.mode, out)
			}
		})
	}
}

func TestRewriteInsertsMissingKeywordsIntoSkills(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	raw := "SUMMARY\nEngineer.\n\nEXPERIENCE\n- Built tools, 2019 - 2024\n\nEDUCATION\nB.S. Physics\n\nSKILLS\nGo, SQL, C, Rust"
	sections := classifyText(t, raw, vocab)
	resumeKw := ExtractKeywords(raw, vocab)
	jobKw := []string{"go", "terraform", "kafka"}

	out := Rewrite(sections, resumeKw, jobKw, 200, types.OptimizationKeywords, vocab, tuning)

	for _, want := range []string{"- terraform", "- kafka"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected inserted skill line %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "- go\n") {
		t.Error("keyword already present in skills must not be inserted")
	}

	formatOut := Rewrite(sections, resumeKw, jobKw, 200, types.OptimizationFormat, vocab, tuning)
	if strings.Contains(formatOut, "- terraform") {
		t.Error("format mode must not insert keywords")
	}
}

func TestRewriteNormalizesBullets(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	raw := "EXPERIENCE\n* Built the API\n  2) Shipped the dashboard"
	sections := classifyText(t, raw, vocab)

	out := Rewrite(sections, nil, nil, 200, types.OptimizationFormat, vocab, tuning)
	for _, want := range []string{"- Built the API", "- Shipped the dashboard"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected normalized bullet %q in:\n%s", want, out)
		}
	}
}

func TestRewriteIdempotent(t *testing.T) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()

	raw := "SUMMARY\nEngineer who worked on payments.\n\nEXPERIENCE\n* Responsible for the billing platform, 2019 - 2024\n- Helped launch the mobile app\n\nEDUCATION\nB.S. Physics\n\nSKILLS\nGo, SQL, C, Rust"
	jobKw := []string{"go", "terraform", "kafka"}

	sections := classifyText(t, raw, vocab)
	first := Rewrite(sections, ExtractKeywords(raw, vocab), jobKw, 200, types.OptimizationGeneral, vocab, tuning)

	sections2 := classifyText(t, first, vocab)
	second := Rewrite(sections2, ExtractKeywords(first, vocab), jobKw, 200, types.OptimizationGeneral, vocab, tuning)

	if first != second {
		t.Errorf("rewrite not idempotent\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestReplacePhrase(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		from     string
		to       string
		expected string
	}{
		{
			name:     "case preserved at sentence start",
			line:     "Responsible for billing",
			from:     "responsible for",
			to:       "managed",
			expected: "Managed billing",
		},
		{
			name:     "mid-sentence lowercase",
			line:     "was responsible for billing",
			from:     "responsible for",
			to:       "managed",
			expected: "was managed billing",
		},
		{
			name:     "whole words only",
			line:     "misused the caused tool",
			from:     "used",
			to:       "utilized",
			expected: "misused the caused tool",
		},
		{
			name:     "multiple occurrences",
			line:     "used it and used them",
			from:     "used",
			to:       "utilized",
			expected: "utilized it and utilized them",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := replacePhrase(tt.line, tt.from, tt.to); got != tt.expected {
				t.Errorf("replacePhrase = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func BenchmarkRewrite(b *testing.B) {
	vocab := DefaultVocabulary()
	tuning := DefaultTuning()
	raw := "SUMMARY\nEngineer.\n\nEXPERIENCE\n- Responsible for the billing platform, 2019 - 2024\n- Worked with designers\n\nEDUCATION\nB.S. Physics\n\nSKILLS\nGo, SQL, C, Rust"
	blocks, err := Normalize(raw, vocab)
	if err != nil {
		b.Fatal(err)
	}
	sections := Classify(blocks, vocab)
	keywords := ExtractKeywords(raw, vocab)
	for b.Loop() {
		Rewrite(sections, keywords, nil, 200, types.OptimizationGeneral, vocab, tuning)
	}
}
