package engine

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	vocab := DefaultVocabulary()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "lowercases and strips punctuation",
			input:    "Built REST APIs, (Docker) and Kubernetes.",
			expected: []string{"built", "rest", "apis", "docker", "kubernetes"},
		},
		{
			name:     "keeps skill name characters",
			input:    "Expert in C++, C#, node.js",
			expected: []string{"expert", "c++", "c#", "node.js"},
		},
		{
			name:     "drops stop words and bare numbers",
			input:    "I was on a team of 12 and we shipped in 2023",
			expected: []string{"team", "shipped"},
		},
		{
			name:     "deduplicates in first-seen order",
			input:    "go python go sql python",
			expected: []string{"go", "python", "sql"},
		},
		{
			name:     "single characters dropped",
			input:    "a b c d go",
			expected: []string{"go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.input, vocab)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractKeywords(%q) = %#v, expected %#v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAlignment(t *testing.T) {
	tests := []struct {
		name     string
		resume   []string
		job      []string
		expected float64
	}{
		{
			name:     "full overlap",
			resume:   []string{"go", "sql"},
			job:      []string{"go", "sql"},
			expected: 1.0,
		},
		{
			name:     "partial overlap",
			resume:   []string{"go", "sql", "docker"},
			job:      []string{"go", "sql", "terraform", "kubernetes"},
			expected: 0.5,
		},
		{
			name:     "no overlap",
			resume:   []string{"go"},
			job:      []string{"terraform"},
			expected: 0,
		},
		{
			name:     "empty resume set",
			resume:   nil,
			job:      []string{"go", "sql"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Alignment(tt.resume, tt.job); got != tt.expected {
				t.Errorf("Alignment = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestMissingKeywords(t *testing.T) {
	got := MissingKeywords(
		[]string{"go", "sql"},
		[]string{"go", "terraform", "sql", "kubernetes"},
	)
	expected := []string{"terraform", "kubernetes"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("MissingKeywords = %#v, expected %#v", got, expected)
	}
}

func TestDetectField(t *testing.T) {
	vocab := DefaultVocabulary()

	tests := []struct {
		title    string
		expected string
	}{
		{title: "Data Scientist", expected: "data"},
		{title: "Business Analyst", expected: "data"},
		{title: "Marketing Manager", expected: "marketing"},
		{title: "Content Strategist", expected: "marketing"},
		{title: "Software Engineer", expected: "software"},
		{title: "Plumber", expected: "software"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := DetectField(tt.title, vocab); got != tt.expected {
				t.Errorf("DetectField(%q) = %q, expected %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestKeywordsForJob(t *testing.T) {
	vocab := DefaultVocabulary()

	t.Run("title only yields field keywords", func(t *testing.T) {
		field, keywords := KeywordsForJob("Software Engineer", "", vocab)
		if field != "software" {
			t.Errorf("field = %q, expected software", field)
		}
		if !reflect.DeepEqual(keywords, vocab.FieldKeywords["software"]) {
			t.Errorf("keywords = %#v, expected the software field set", keywords)
		}
	})

	t.Run("description contributes verbs and capitalized terms", func(t *testing.T) {
		desc := "You will have designed systems using Terraform. We value people who have launched products."
		_, keywords := KeywordsForJob("Software Engineer", desc, vocab)

		for _, want := range []string{"designed", "launched", "terraform"} {
			found := false
			for _, k := range keywords {
				if k == want {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected keyword %q in %#v", want, keywords)
			}
		}
	})

	t.Run("list capped and deterministic", func(t *testing.T) {
		desc := "Alpha Beta Gamma Delta Epsilon Zeta Eta Theta Iota Kappa Lambda Mu Nu Xi Omicron Pi Rho Sigma Tau Upsilon Phi Chi Psi Omega."
		_, first := KeywordsForJob("Software Engineer", desc, vocab)
		_, second := KeywordsForJob("Software Engineer", desc, vocab)
		if len(first) > maxJobKeywords {
			t.Errorf("keyword list length %d exceeds cap %d", len(first), maxJobKeywords)
		}
		if !reflect.DeepEqual(first, second) {
			t.Error("expected identical keyword lists across calls")
		}
	})
}

func TestCapitalizedTerms(t *testing.T) {
	got := capitalizedTerms("We use Terraform daily. Our stack includes Kafka and Redis.")
	expected := []string{"Terraform", "Kafka", "Redis"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("capitalizedTerms = %#v, expected %#v", got, expected)
	}
}
