package engine

import (
	"context"
	"fmt"
	"strings"

	"resumelift/internal/errors"
	"resumelift/internal/types"
)

// ruleVersion identifies the current tuning of the rule set, reported by
// health checks so operators can tell deployments apart.
const ruleVersion = "2026.1"

// RuleEngine is the deterministic implementation of Engine. It holds only
// immutable vocabulary and tuning, performs no I/O, and keeps no state across
// calls, so concurrent use needs no locking.
type RuleEngine struct {
	vocab  *Vocabulary
	tuning Tuning
	logger *errors.Logger
}

// NewRuleEngine creates a rule engine over the given vocabulary and tuning.
func NewRuleEngine(vocab *Vocabulary, tuning Tuning, logger *errors.Logger) (*RuleEngine, error) {
	if vocab == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"engine vocabulary must not be nil", nil)
	}
	if tuning.MaxSuggestions < 1 || tuning.QuantSaturation < 1 {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("invalid engine tuning: maxSuggestions=%d quantSaturation=%d",
				tuning.MaxSuggestions, tuning.QuantSaturation), nil)
	}
	return &RuleEngine{vocab: vocab, tuning: tuning, logger: logger}, nil
}

// OptimizeResume runs the full pipeline: normalize, classify, extract,
// score, suggest, rewrite. The context is accepted for interface symmetry;
// the pipeline itself never blocks, so there is nothing to cancel.
func (e *RuleEngine) OptimizeResume(_ context.Context, input types.OptimizeResumeInput) (types.OptimizeResumeOutput, *TextStats, error) {
	mode := input.OptimizationType
	if mode == "" {
		mode = types.OptimizationGeneral
	}
	if !mode.Valid() {
		// Unknown modes degrade to the default pipeline instead of failing.
		mode = types.OptimizationGeneral
	}

	blocks, err := Normalize(input.ResumeContent, e.vocab)
	if err != nil {
		return types.OptimizeResumeOutput{}, nil, err
	}

	sections := Classify(blocks, e.vocab)
	resumeKeywords := ExtractKeywords(input.ResumeContent, e.vocab)
	wordCount := WordCount(input.ResumeContent)

	var alignment *float64
	var jobKeywords, missing []string
	if strings.TrimSpace(input.JobDescription) != "" {
		jobKeywords = ExtractKeywords(input.JobDescription, e.vocab)
		if len(jobKeywords) > 0 {
			a := Alignment(resumeKeywords, jobKeywords)
			alignment = &a
			missing = MissingKeywords(resumeKeywords, jobKeywords)
		}
	}

	score, breakdown := Score(sections, wordCount, alignment, e.tuning)
	suggestions := Suggest(score, breakdown, sections, missing, wordCount, mode, e.vocab, e.tuning)
	optimized := Rewrite(sections, resumeKeywords, jobKeywords, wordCount, mode, e.vocab, e.tuning)

	out := types.OptimizeResumeOutput{
		Score:            score,
		ScoreBreakdown:   breakdown,
		Suggestions:      suggestions,
		OptimizedContent: optimized,
	}
	stats := &TextStats{InputWords: wordCount, OutputWords: WordCount(optimized)}
	return out, stats, nil
}

// AnalyzeResume runs the scoring half of the pipeline and projects it into a
// detailed report instead of a rewrite.
func (e *RuleEngine) AnalyzeResume(_ context.Context, input types.AnalyzeResumeInput) (types.AnalyzeResumeOutput, *TextStats, error) {
	blocks, err := Normalize(input.ResumeContent, e.vocab)
	if err != nil {
		return types.AnalyzeResumeOutput{}, nil, err
	}

	sections := Classify(blocks, e.vocab)
	resumeKeywords := ExtractKeywords(input.ResumeContent, e.vocab)
	wordCount := WordCount(input.ResumeContent)

	var alignment *float64
	var missing []string
	if strings.TrimSpace(input.JobDescription) != "" {
		jobKeywords := ExtractKeywords(input.JobDescription, e.vocab)
		if len(jobKeywords) > 0 {
			a := Alignment(resumeKeywords, jobKeywords)
			alignment = &a
			missing = MissingKeywords(resumeKeywords, jobKeywords)
		}
	}

	score, breakdown := Score(sections, wordCount, alignment, e.tuning)

	out := types.AnalyzeResumeOutput{
		OverallScore:        score,
		ScoreBreakdown:      breakdown,
		Strengths:           e.strengths(breakdown, sections),
		Weaknesses:          e.weaknesses(breakdown, sections, wordCount),
		MissingKeywords:     missing,
		RecommendedSections: recommendedSections(sections),
		WordCount:           wordCount,
		ReadingLevel:        readingLevel(input.ResumeContent),
	}
	stats := &TextStats{InputWords: wordCount}
	return out, stats, nil
}

// JobKeywords recommends keywords for a job posting.
func (e *RuleEngine) JobKeywords(_ context.Context, input types.JobKeywordsInput) (types.JobKeywordsOutput, *TextStats, error) {
	if strings.TrimSpace(input.JobTitle) == "" {
		return types.JobKeywordsOutput{}, nil, errors.NewEmptyContentError("job_title")
	}
	field, keywords := KeywordsForJob(input.JobTitle, input.JobDescription, e.vocab)
	out := types.JobKeywordsOutput{Keywords: keywords, Field: field}
	stats := &TextStats{InputWords: WordCount(input.JobTitle) + WordCount(input.JobDescription)}
	return out, stats, nil
}

// GetEngineInfo describes the engine for health checks.
func (e *RuleEngine) GetEngineInfo(_ context.Context) *EngineInfo {
	return &EngineInfo{
		Name:          "rule-engine",
		RuleVersion:   ruleVersion,
		Deterministic: true,
		SectionKinds:  len(e.vocab.SectionAliases),
		WeakWords:     len(e.vocab.WeakWords),
	}
}

// Close releases nothing; the engine holds no resources.
func (e *RuleEngine) Close() error {
	return nil
}

func (e *RuleEngine) strengths(bd types.ScoreBreakdown, sections []types.SectionBlock) []string {
	var strengths []string
	if bd.Structure >= e.tuning.GoodThreshold {
		strengths = append(strengths, "Clear section structure covering the core resume sections")
	}
	if n := countQuantifiedBullets(sections); n > 0 {
		strengths = append(strengths, fmt.Sprintf("%d experience bullets back claims with concrete numbers", n))
	}
	if bd.KeywordAlignment != nil && *bd.KeywordAlignment >= e.tuning.GoodThreshold {
		strengths = append(strengths, "Strong keyword alignment with the target job description")
	}
	if verbs := actionVerbsUsed(sections, e.vocab); len(verbs) > 0 {
		strengths = append(strengths, fmt.Sprintf("Uses strong action verbs such as %s", strings.Join(verbs[:min(3, len(verbs))], ", ")))
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Content present to build on")
	}
	return strengths
}

func (e *RuleEngine) weaknesses(bd types.ScoreBreakdown, sections []types.SectionBlock, wordCount int) []string {
	var weaknesses []string
	if bd.Structure < e.tuning.GoodThreshold {
		weaknesses = append(weaknesses, "Missing one or more core sections")
	}
	if bd.Quantification < e.tuning.GoodThreshold {
		weaknesses = append(weaknesses, "Few measurable outcomes in the experience bullets")
	}
	if bd.KeywordAlignment != nil && *bd.KeywordAlignment < e.tuning.GoodThreshold {
		weaknesses = append(weaknesses, "Weak keyword alignment with the target job description")
	}
	if bd.Length < e.tuning.GoodThreshold {
		if wordCount < e.tuning.TargetMinWords {
			weaknesses = append(weaknesses, "Too short to convey depth of experience")
		} else {
			weaknesses = append(weaknesses, "Longer than recruiters typically read")
		}
	}
	if weak := findWeakPhrases(sections, e.vocab); len(weak) > 0 {
		weaknesses = append(weaknesses, "Relies on weak phrasing instead of action verbs")
	}
	return weaknesses
}

// actionVerbsUsed lists vocabulary action verbs appearing in the resume, in
// vocabulary order.
func actionVerbsUsed(sections []types.SectionBlock, vocab *Vocabulary) []string {
	var all strings.Builder
	for _, s := range sections {
		all.WriteString(strings.ToLower(s.Text))
		all.WriteByte('\n')
	}
	text := all.String()
	var used []string
	for _, v := range vocab.ActionVerbs {
		if containsAnyWord(text, []string{v}) {
			used = append(used, v)
		}
	}
	return used
}

// recommendedSections labels the missing core sections.
func recommendedSections(sections []types.SectionBlock) []string {
	var recs []string
	for _, kind := range missingCoreSections(sections) {
		recs = append(recs, sectionLabels[kind])
	}
	return recs
}

// readingLevel buckets average sentence length into a coarse readability
// label.
func readingLevel(text string) string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return "concise"
	}
	avg := float64(WordCount(text)) / float64(len(sentences))
	switch {
	case avg < 12:
		return "concise"
	case avg <= 20:
		return "standard"
	default:
		return "complex"
	}
}
