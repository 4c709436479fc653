package engine

import (
	"regexp"

	"resumelift/internal/types"
)

// WeakWord maps a weak phrase to its stronger replacement.
type WeakWord struct {
	From string
	To   string
}

// Vocabulary holds the immutable word lists and patterns the pipeline matches
// against. It is built once at startup and passed explicitly into each stage;
// nothing mutates it after construction.
type Vocabulary struct {
	StopWords      map[string]struct{}
	SectionAliases map[string]types.SectionKind
	WeakWords      []WeakWord
	ActionVerbs    []string
	FieldKeywords  map[string][]string
	DegreeWords    []string
}

// Tuning holds the scoring constants. Defaults are chosen so a structurally
// complete 400-word resume with 3 quantified bullets and 80% keyword alignment
// scores 85.
type Tuning struct {
	GoodThreshold      float64
	ExcellentThreshold float64
	MaxSuggestions     int
	QuantSaturation    int
	ShortWordLimit     int
	TargetMinWords     int
	TargetMaxWords     int
}

// DefaultTuning returns the standard scoring constants.
func DefaultTuning() Tuning {
	return Tuning{
		GoodThreshold:      70,
		ExcellentThreshold: 90,
		MaxSuggestions:     6,
		QuantSaturation:    5,
		ShortWordLimit:     100,
		TargetMinWords:     300,
		TargetMaxWords:     800,
	}
}

// quantPattern matches quantified achievements: percentages, dollar amounts,
// and counts with a unit word.
var quantPattern = regexp.MustCompile(
	`\d+(?:\.\d+)?%|\$\d[\d,.]*|\b\d+\+?\s+(?:years?|months?|weeks?|projects?|users?|clients?|customers?|people|engineers?|teams?|percent)\b`)

// dateRangePattern matches employment date ranges like "2019 - 2022" or
// "Jan 2020 to Present".
var dateRangePattern = regexp.MustCompile(
	`(?i)\b(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?(?:19|20)\d{2}\s*(?:-|–|—|to)\s*(?:(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?(?:19|20)\d{2}|present|current|now)\b`)

// bulletPattern matches a bullet marker at the start of a line.
var bulletPattern = regexp.MustCompile(`^\s*(?:[-*•▪●o]|\d+[.)])\s+`)

// sentencePattern splits prose into sentences, keeping terminal punctuation.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)

// DefaultVocabulary returns the built-in word lists. Callers may replace
// individual lists via configuration before handing the vocabulary to the
// engine.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		StopWords: toSet([]string{
			"a", "an", "and", "are", "as", "at", "be", "been", "but", "by",
			"for", "from", "had", "has", "have", "i", "in", "is", "it", "its",
			"my", "of", "on", "or", "our", "that", "the", "their", "this",
			"to", "was", "we", "were", "will", "with", "you", "your",
		}),
		SectionAliases: map[string]types.SectionKind{
			"summary":                 types.SectionSummary,
			"professional summary":    types.SectionSummary,
			"profile":                 types.SectionSummary,
			"objective":               types.SectionSummary,
			"about":                   types.SectionSummary,
			"experience":              types.SectionExperience,
			"work experience":         types.SectionExperience,
			"professional experience": types.SectionExperience,
			"employment":              types.SectionExperience,
			"employment history":      types.SectionExperience,
			"work history":            types.SectionExperience,
			"education":               types.SectionEducation,
			"academic background":     types.SectionEducation,
			"qualifications":          types.SectionEducation,
			"skills":                  types.SectionSkills,
			"technical skills":        types.SectionSkills,
			"core competencies":       types.SectionSkills,
			"core strengths":          types.SectionSkills,
			"technologies":            types.SectionSkills,
		},
		// Multi-word phrases first so they win over their single-word parts.
		WeakWords: []WeakWord{
			{"responsible for", "managed"},
			{"worked with", "collaborated with"},
			{"worked on", "developed"},
			{"helped", "assisted"},
			{"made", "created"},
			{"did", "executed"},
			{"got", "achieved"},
			{"used", "utilized"},
		},
		ActionVerbs: []string{
			"achieved", "built", "collaborated", "created", "delivered",
			"designed", "developed", "engineered", "executed", "implemented",
			"improved", "increased", "launched", "led", "managed",
			"optimized", "reduced", "spearheaded", "streamlined",
		},
		FieldKeywords: map[string][]string{
			"software": {
				"python", "javascript", "typescript", "java", "go", "react",
				"node.js", "sql", "aws", "docker", "kubernetes", "git",
				"api", "microservices", "ci/cd", "agile",
			},
			"data": {
				"python", "sql", "pandas", "numpy", "machine learning",
				"statistics", "tableau", "spark", "etl", "data visualization",
				"tensorflow", "analytics",
			},
			"marketing": {
				"seo", "sem", "google analytics", "content marketing",
				"social media", "email marketing", "crm", "branding",
				"campaign management", "copywriting",
			},
		},
		DegreeWords: []string{
			"bachelor", "master", "phd", "doctorate", "b.s.", "m.s.", "b.a.",
			"m.a.", "mba", "degree", "diploma", "university", "college",
		},
	}
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
