package engine

import (
	"fmt"
	"sort"
	"strings"

	"resumelift/internal/types"
)

// suggestion categories, used for optimization-type emphasis.
const (
	catStructure = "structure"
	catQuant     = "quantification"
	catKeywords  = "keywords"
	catLength    = "length"
	catFormat    = "format"
)

type candidate struct {
	text     string
	category string
	subScore float64
}

// weakPhraseAnchor is the sort key for the weak-phrase suggestion. Weak
// phrasing has no criterion of its own, so it gets a fixed mid-band anchor:
// it outranks healthy criteria but yields to anything genuinely failing.
const weakPhraseAnchor = 50.0

var sectionLabels = map[types.SectionKind]string{
	types.SectionSummary:    "Summary",
	types.SectionExperience: "Experience",
	types.SectionEducation:  "Education",
	types.SectionSkills:     "Skills",
}

// Suggest derives ordered improvement suggestions from the score breakdown
// and the section gaps. Worst criterion first, at most MaxSuggestions, never
// empty: a resume at or above the excellent threshold still gets one
// affirming suggestion.
func Suggest(aggregate float64, breakdown types.ScoreBreakdown, sections []types.SectionBlock,
	missingKeywords []string, wordCount int, mode types.OptimizationType, vocab *Vocabulary, t Tuning) []string {

	var candidates []candidate

	if breakdown.Structure < t.GoodThreshold {
		for _, kind := range missingCoreSections(sections) {
			candidates = append(candidates, candidate{
				text:     fmt.Sprintf("Add a dedicated %s section so the resume's structure is easy to scan", sectionLabels[kind]),
				category: catStructure,
				subScore: breakdown.Structure,
			})
		}
	}

	if breakdown.Quantification < t.GoodThreshold {
		candidates = append(candidates, candidate{
			text:     "Add measurable outcomes to your experience bullets, e.g. percentages, dollar amounts, or counts",
			category: catQuant,
			subScore: breakdown.Quantification,
		})
	}

	if breakdown.KeywordAlignment != nil && *breakdown.KeywordAlignment < t.GoodThreshold {
		text := "Incorporate more of the job description's keywords where they genuinely apply"
		if len(missingKeywords) > 0 {
			top := missingKeywords
			if len(top) > 3 {
				top = top[:3]
			}
			text = fmt.Sprintf("Incorporate missing job keywords where they genuinely apply, such as: %s", strings.Join(top, ", "))
		}
		candidates = append(candidates, candidate{
			text:     text,
			category: catKeywords,
			subScore: *breakdown.KeywordAlignment,
		})
	}

	if breakdown.Length < t.GoodThreshold {
		text := "Expand the resume with more detail about your roles and accomplishments"
		if wordCount > t.TargetMaxWords {
			text = "Trim less relevant detail; recruiters favor focused resumes"
		}
		candidates = append(candidates, candidate{
			text:     text,
			category: catLength,
			subScore: breakdown.Length,
		})
	}

	if weak := findWeakPhrases(sections, vocab); len(weak) > 0 {
		candidates = append(candidates, candidate{
			text:     fmt.Sprintf("Replace weak phrases with stronger action verbs (e.g. %s)", weak[0]),
			category: catFormat,
			subScore: weakPhraseAnchor,
		})
	}

	boost := modeBoost(mode)
	sort.SliceStable(candidates, func(i, j int) bool {
		si := candidates[i].subScore - boost[candidates[i].category]
		sj := candidates[j].subScore - boost[candidates[j].category]
		return si < sj
	})

	suggestions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, c.text)
		if len(suggestions) == t.MaxSuggestions {
			break
		}
	}

	// Callers never receive zero feedback: an excellent resume gets an
	// affirming suggestion instead of an empty list.
	if len(suggestions) == 0 && aggregate >= t.ExcellentThreshold {
		suggestions = append(suggestions,
			"Excellent resume. Keep tailoring it to each specific role you apply for")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions,
			"Solid foundation. Review each bullet for impact and specificity")
	}
	return suggestions
}

// modeBoost returns per-category score offsets so the selected optimization
// type's concerns sort first. The offset dwarfs any sub-score difference.
func modeBoost(mode types.OptimizationType) map[string]float64 {
	const emphasis = 1000
	switch mode {
	case types.OptimizationATS:
		return map[string]float64{catStructure: emphasis, catFormat: emphasis / 2}
	case types.OptimizationKeywords:
		return map[string]float64{catKeywords: emphasis}
	case types.OptimizationFormat:
		return map[string]float64{catFormat: emphasis, catStructure: emphasis / 2}
	default:
		return map[string]float64{}
	}
}

// findWeakPhrases lists "weak → strong" replacements applicable to the resume
// text, in vocabulary order.
func findWeakPhrases(sections []types.SectionBlock, vocab *Vocabulary) []string {
	var all strings.Builder
	for _, s := range sections {
		all.WriteString(strings.ToLower(s.Text))
		all.WriteByte('\n')
	}
	text := all.String()
	var found []string
	for _, ww := range vocab.WeakWords {
		if containsAnyWord(text, []string{ww.From}) {
			found = append(found, fmt.Sprintf("%q → %q", ww.From, ww.To))
		}
	}
	return found
}
