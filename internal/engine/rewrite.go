package engine

import (
	"strings"
	"unicode"

	"resumelift/internal/types"
)

// Rewrite produces the optimized resume text. Short, structurally incomplete
// resumes get an additive expansion that wraps the original sentences in
// standard section headers; everything else gets deterministic touch-ups
// (weak-phrase replacement, bullet normalization, keyword insertion into
// Skills). Re-running the rewriter on its own output with the same job
// context changes nothing.
func Rewrite(sections []types.SectionBlock, resumeKeywords, jobKeywords []string,
	wordCount int, mode types.OptimizationType, vocab *Vocabulary, t Tuning) string {

	if wordCount < t.ShortWordLimit && len(missingCoreSections(sections)) > 0 {
		return expandShort(sections, resumeKeywords, vocab)
	}
	return touchUp(sections, resumeKeywords, jobKeywords, mode, vocab)
}

// expandShort synthesizes a structurally complete resume around short input.
// Expansion is additive only: every original sentence is carried over
// verbatim as a bullet under the experience header, so the output can never
// be shorter than the input.
func expandShort(sections []types.SectionBlock, resumeKeywords []string, vocab *Vocabulary) string {
	var sentences []string
	for _, s := range sections {
		sentences = append(sentences, SplitSentences(s.Text)...)
	}

	var b strings.Builder
	b.WriteString("PROFESSIONAL SUMMARY\n")
	b.WriteString("Motivated professional with hands-on experience and a track record of dependable delivery.\n\n")

	b.WriteString("EXPERIENCE\n")
	for _, s := range sentences {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString("SKILLS\n")
	if len(resumeKeywords) == 0 {
		b.WriteString("- Communication\n- Problem solving\n- Collaboration\n")
	} else {
		for _, k := range resumeKeywords {
			b.WriteString("- ")
			b.WriteString(k)
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')

	b.WriteString("EDUCATION\n")
	b.WriteString("Add your education and certifications here.\n")

	return b.String()
}

// touchUp reassembles the classified sections with normalized formatting and
// mode-dependent content edits. Existing content is never deleted.
func touchUp(sections []types.SectionBlock, resumeKeywords, jobKeywords []string,
	mode types.OptimizationType, vocab *Vocabulary) string {

	replaceWeak := mode == types.OptimizationGeneral || mode == types.OptimizationATS
	insertKeywords := (mode == types.OptimizationGeneral || mode == types.OptimizationKeywords) && len(jobKeywords) > 0

	var parts []string
	skillsSeen := false
	for _, s := range sections {
		var lines []string
		if s.Header != "" {
			lines = append(lines, s.Header)
		}
		for _, line := range strings.Split(s.Text, "\n") {
			if strings.TrimSpace(line) == "" {
				lines = append(lines, "")
				continue
			}
			if bulletPattern.MatchString(line) {
				line = "- " + strings.TrimSpace(bulletPattern.ReplaceAllString(line, ""))
			}
			if replaceWeak {
				line = replaceWeakWords(line, vocab)
			}
			lines = append(lines, line)
		}

		if s.Kind == types.SectionSkills && !skillsSeen {
			skillsSeen = true
			if insertKeywords {
				lines = append(lines, missingSkillLines(s.Text, resumeKeywords, jobKeywords)...)
			}
		}

		parts = append(parts, strings.Join(lines, "\n"))
	}

	out := strings.Join(parts, "\n\n")
	return strings.TrimRight(out, "\n") + "\n"
}

// missingSkillLines renders job keywords absent from both the resume keyword
// set and the Skills section text as new bullet lines, deduplicated so a
// second pass inserts nothing.
func missingSkillLines(skillsText string, resumeKeywords, jobKeywords []string) []string {
	lowerSkills := strings.ToLower(skillsText)
	var lines []string
	for _, k := range MissingKeywords(resumeKeywords, jobKeywords) {
		if strings.Contains(lowerSkills, k) {
			continue
		}
		lines = append(lines, "- "+k)
	}
	return lines
}

// replaceWeakWords swaps weak phrases for their stronger counterparts,
// case-insensitively, preserving leading capitalization. Replacements never
// contain weak phrases themselves, which keeps the substitution idempotent.
func replaceWeakWords(line string, vocab *Vocabulary) string {
	for _, ww := range vocab.WeakWords {
		line = replacePhrase(line, ww.From, ww.To)
	}
	return line
}

// replacePhrase replaces whole-word occurrences of from with to, ignoring
// case and copying the original's leading capitalization.
func replacePhrase(line, from, to string) string {
	lower := strings.ToLower(line)
	var b strings.Builder
	idx := 0
	for idx < len(line) {
		pos := strings.Index(lower[idx:], from)
		if pos < 0 {
			b.WriteString(line[idx:])
			break
		}
		pos += idx
		end := pos + len(from)
		atStart := pos == 0 || !isWordChar(lower[pos-1])
		atEnd := end >= len(lower) || !isWordChar(lower[end])
		if !atStart || !atEnd {
			b.WriteString(line[idx : pos+1])
			idx = pos + 1
			continue
		}
		b.WriteString(line[idx:pos])
		b.WriteString(matchCase(line[pos:end], to))
		idx = end
	}
	return b.String()
}

// matchCase copies the source's leading capitalization onto the replacement.
func matchCase(source, replacement string) string {
	if source == "" || replacement == "" {
		return replacement
	}
	first := []rune(source)[0]
	repl := []rune(replacement)
	if unicode.IsUpper(first) {
		repl[0] = unicode.ToUpper(repl[0])
	}
	return string(repl)
}
