package engine

import (
	"strings"

	"resumelift/internal/types"
)

// Classify tags each block with a section kind. A header match always wins;
// blocks without one go through content heuristics, and any ambiguity
// (several heuristics firing at once) resolves to Unclassified rather than a
// guess.
func Classify(blocks []Block, vocab *Vocabulary) []types.SectionBlock {
	sections := make([]types.SectionBlock, 0, len(blocks))
	for _, b := range blocks {
		text := strings.Join(b.Lines, "\n")
		kind := b.Kind
		if b.Header == "" {
			kind = classifyByContent(text, vocab)
		}
		sections = append(sections, types.SectionBlock{
			Kind:    kind,
			Header:  b.Header,
			Text:    text,
			Bullets: detectBullets(b.Lines, kind),
		})
	}
	return sections
}

// classifyByContent applies the header-less heuristics. Exactly one heuristic
// must fire for a classification to stick.
func classifyByContent(text string, vocab *Vocabulary) types.SectionKind {
	var matches []types.SectionKind

	if dateRangePattern.MatchString(text) {
		matches = append(matches, types.SectionExperience)
	}
	if containsAnyWord(text, vocab.DegreeWords) {
		matches = append(matches, types.SectionEducation)
	}
	if looksLikeSkillList(text) {
		matches = append(matches, types.SectionSkills)
	}

	if len(matches) == 1 {
		return matches[0]
	}
	return types.SectionUnclassified
}

// containsAnyWord reports whether text contains any of the given words,
// case-insensitively, on word boundaries.
func containsAnyWord(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		idx := strings.Index(lower, w)
		for idx >= 0 {
			before := idx == 0 || !isWordChar(lower[idx-1])
			afterIdx := idx + len(w)
			after := afterIdx >= len(lower) || !isWordChar(lower[afterIdx])
			if before && after {
				return true
			}
			next := strings.Index(lower[idx+1:], w)
			if next < 0 {
				break
			}
			idx += 1 + next
		}
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// looksLikeSkillList reports whether text reads as a short separator-delimited
// token list rather than prose.
func looksLikeSkillList(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) > 3 {
		return false
	}
	separators := strings.Count(text, ",") + strings.Count(text, "|") + strings.Count(text, "•")
	if separators < 3 {
		return false
	}
	// Prose has sentence-ending periods; token lists do not.
	return !strings.Contains(strings.TrimSuffix(strings.TrimSpace(text), "."), ". ")
}

// detectBullets extracts bullet items from a block's lines. Marked bullets
// (-, *, numbered) win; an Experience block without markers falls back to its
// plain lines so quantification still has items to scan.
func detectBullets(lines []string, kind types.SectionKind) []string {
	var bullets []string
	for _, line := range lines {
		if bulletPattern.MatchString(line) {
			bullets = append(bullets, strings.TrimSpace(bulletPattern.ReplaceAllString(line, "")))
		}
	}
	if len(bullets) == 0 && kind == types.SectionExperience {
		for _, line := range lines {
			if s := strings.TrimSpace(line); s != "" {
				bullets = append(bullets, s)
			}
		}
	}
	return bullets
}

// presentKinds returns the set of core section kinds present.
func presentKinds(sections []types.SectionBlock) map[types.SectionKind]bool {
	present := make(map[types.SectionKind]bool)
	for _, s := range sections {
		if s.Kind != types.SectionUnclassified {
			present[s.Kind] = true
		}
	}
	return present
}

// missingCoreSections lists the core sections absent from the classified
// resume, in canonical order.
func missingCoreSections(sections []types.SectionBlock) []types.SectionKind {
	present := presentKinds(sections)
	var missing []types.SectionKind
	for _, kind := range coreSectionOrder {
		if !present[kind] {
			missing = append(missing, kind)
		}
	}
	return missing
}

var coreSectionOrder = []types.SectionKind{
	types.SectionSummary,
	types.SectionExperience,
	types.SectionEducation,
	types.SectionSkills,
}
