package engine

import (
	"strings"

	"resumelift/internal/errors"
	"resumelift/internal/types"
)

// Block is a contiguous span of normalized resume text. Kind is set when the
// block opened with a recognized section header, otherwise it is unclassified
// until the classifier runs its content heuristics.
type Block struct {
	Header string
	Kind   types.SectionKind
	Lines  []string
}

// Normalize cleans raw resume text and segments it into ordered blocks. It
// fails only on empty or whitespace-only input; every other input yields at
// least one block.
func Normalize(raw string, vocab *Vocabulary) ([]Block, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.NewEmptyContentError("resume_content")
	}

	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var blocks []Block
	current := Block{Kind: types.SectionUnclassified}

	flush := func() {
		if current.Header != "" || len(current.Lines) > 0 {
			blocks = append(blocks, current)
		}
		current = Block{Kind: types.SectionUnclassified}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, " \t")

		if kind, label, ok := matchHeader(line, vocab); ok {
			flush()
			current.Header = label
			current.Kind = kind
			continue
		}

		if strings.TrimSpace(line) == "" {
			// Blank lines end headerless blocks; inside a headed section
			// they only separate paragraphs.
			if current.Header == "" {
				flush()
			} else if len(current.Lines) > 0 && current.Lines[len(current.Lines)-1] != "" {
				current.Lines = append(current.Lines, "")
			}
			continue
		}

		current.Lines = append(current.Lines, line)
	}
	flush()

	// Trim trailing paragraph separators left inside headed blocks.
	for i := range blocks {
		for len(blocks[i].Lines) > 0 && blocks[i].Lines[len(blocks[i].Lines)-1] == "" {
			blocks[i].Lines = blocks[i].Lines[:len(blocks[i].Lines)-1]
		}
	}

	if len(blocks) == 0 {
		// Unreachable for non-blank input, kept as a floor for the
		// at-least-one-block guarantee.
		blocks = append(blocks, Block{Kind: types.SectionUnclassified, Lines: []string{strings.TrimSpace(raw)}})
	}

	return blocks, nil
}

// matchHeader reports whether line is a standalone section header and which
// section it opens. A header is a short line whose text (ignoring case and a
// trailing colon) matches a known alias.
func matchHeader(line string, vocab *Vocabulary) (types.SectionKind, string, bool) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimSuffix(trimmed, ":")
	if trimmed == "" || len(strings.Fields(trimmed)) > 4 {
		return types.SectionUnclassified, "", false
	}
	kind, ok := vocab.SectionAliases[strings.ToLower(trimmed)]
	if !ok {
		return types.SectionUnclassified, "", false
	}
	return kind, trimmed, true
}

// WordCount counts whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// SplitSentences splits prose into trimmed sentences, preserving each
// sentence's own text verbatim.
func SplitSentences(text string) []string {
	var sentences []string
	for _, m := range sentencePattern.FindAllString(text, -1) {
		if s := strings.TrimSpace(m); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
