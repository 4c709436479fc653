package types

// OptimizationType selects which suggestion/rewrite emphasis is applied.
type OptimizationType string

const (
	OptimizationGeneral  OptimizationType = "general"
	OptimizationATS      OptimizationType = "ats"
	OptimizationKeywords OptimizationType = "keywords"
	OptimizationFormat   OptimizationType = "format"
)

// Valid reports whether t is a recognized optimization type.
func (t OptimizationType) Valid() bool {
	switch t {
	case OptimizationGeneral, OptimizationATS, OptimizationKeywords, OptimizationFormat:
		return true
	}
	return false
}

// SectionKind classifies a contiguous block of resume text.
type SectionKind string

const (
	SectionSummary      SectionKind = "summary"
	SectionExperience   SectionKind = "experience"
	SectionEducation    SectionKind = "education"
	SectionSkills       SectionKind = "skills"
	SectionUnclassified SectionKind = "unclassified"
)

// SectionBlock is a classified span of resume text with its detected bullet items.
type SectionBlock struct {
	Kind    SectionKind `json:"kind"`
	Header  string      `json:"header,omitempty"`
	Text    string      `json:"text"`
	Bullets []string    `json:"bullets,omitempty"`
}

// ScoreBreakdown maps criterion names to sub-scores in [0,100]. The
// keywordAlignment entry is present only when a job description was supplied.
type ScoreBreakdown struct {
	Structure        float64  `json:"structure"`
	Quantification   float64  `json:"quantification"`
	Length           float64  `json:"length"`
	KeywordAlignment *float64 `json:"keywordAlignment,omitempty"`
}

// OptimizeResumeInput represents the input for optimizing a resume
type OptimizeResumeInput struct {
	ResumeContent    string           `json:"resumeContent"`
	JobDescription   string           `json:"jobDescription,omitempty"`
	OptimizationType OptimizationType `json:"optimizationType,omitempty"`
}

// OptimizeResumeOutput represents the output from optimizing a resume
type OptimizeResumeOutput struct {
	Score            float64        `json:"score"`
	ScoreBreakdown   ScoreBreakdown `json:"scoreBreakdown"`
	Suggestions      []string       `json:"suggestions"`
	OptimizedContent string         `json:"optimizedContent"`
}

// AnalyzeResumeInput represents the input for analyzing a resume
type AnalyzeResumeInput struct {
	ResumeContent  string `json:"resumeContent"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// AnalyzeResumeOutput represents the detailed analysis of a resume
type AnalyzeResumeOutput struct {
	OverallScore        float64        `json:"overallScore"`
	ScoreBreakdown      ScoreBreakdown `json:"scoreBreakdown"`
	Strengths           []string       `json:"strengths"`
	Weaknesses          []string       `json:"weaknesses"`
	MissingKeywords     []string       `json:"missingKeywords,omitempty"`
	RecommendedSections []string       `json:"recommendedSections,omitempty"`
	WordCount           int            `json:"wordCount"`
	ReadingLevel        string         `json:"readingLevel"`
}

// JobKeywordsInput represents the input for extracting keywords for a job
type JobKeywordsInput struct {
	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// JobKeywordsOutput represents the recommended keywords for a job
type JobKeywordsOutput struct {
	Keywords []string `json:"keywords"`
	Field    string   `json:"field"`
}
