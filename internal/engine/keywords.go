package engine

import (
	"strings"
	"unicode"
)

// ExtractKeywords tokenizes text into normalized keywords: case-folded,
// punctuation-stripped, stop words and bare numbers removed, deduplicated in
// order of first appearance.
func ExtractKeywords(text string, vocab *Vocabulary) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, field := range strings.Fields(text) {
		token := normalizeToken(field)
		if token == "" || isNumeric(token) {
			continue
		}
		if _, stop := vocab.StopWords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}
	return keywords
}

// normalizeToken lowercases a token and strips surrounding punctuation while
// keeping interior characters that are part of skill names (c++, c#, node.js).
func normalizeToken(token string) string {
	token = strings.ToLower(token)
	token = strings.TrimFunc(token, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	if len(token) < 2 {
		return ""
	}
	return token
}

func isNumeric(token string) bool {
	for _, r := range token {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

// Alignment computes |resume ∩ job| / |job|. It must only be called with a
// non-empty job keyword set; absence of a job description omits the criterion
// entirely instead of defaulting it.
func Alignment(resumeKeywords, jobKeywords []string) float64 {
	if len(jobKeywords) == 0 {
		return 0
	}
	resumeSet := make(map[string]struct{}, len(resumeKeywords))
	for _, k := range resumeKeywords {
		resumeSet[k] = struct{}{}
	}
	matched := 0
	for _, k := range jobKeywords {
		if _, ok := resumeSet[k]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(jobKeywords))
}

// MissingKeywords returns job keywords absent from the resume, preserving job
// order.
func MissingKeywords(resumeKeywords, jobKeywords []string) []string {
	resumeSet := make(map[string]struct{}, len(resumeKeywords))
	for _, k := range resumeKeywords {
		resumeSet[k] = struct{}{}
	}
	var missing []string
	for _, k := range jobKeywords {
		if _, ok := resumeSet[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// DetectField infers the professional field from a job title. Unknown titles
// default to software, the broadest keyword set.
func DetectField(jobTitle string, vocab *Vocabulary) string {
	title := strings.ToLower(jobTitle)
	switch {
	case strings.Contains(title, "data") || strings.Contains(title, "analyst") ||
		strings.Contains(title, "scientist"):
		return "data"
	case strings.Contains(title, "market") || strings.Contains(title, "brand") ||
		strings.Contains(title, "content"):
		return "marketing"
	default:
		return "software"
	}
}

const maxJobKeywords = 20

// KeywordsForJob builds the recommended keyword list for a job posting: the
// field's known skills, action verbs appearing in the description, and
// capitalized terms from the description, deduplicated and capped.
func KeywordsForJob(jobTitle, jobDescription string, vocab *Vocabulary) (string, []string) {
	field := DetectField(jobTitle, vocab)

	seen := make(map[string]struct{})
	var keywords []string
	add := func(k string) {
		if len(keywords) >= maxJobKeywords {
			return
		}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
	}

	for _, k := range vocab.FieldKeywords[field] {
		add(k)
	}

	if jobDescription != "" {
		descKeywords := toSet(ExtractKeywords(jobDescription, vocab))
		for _, verb := range vocab.ActionVerbs {
			if _, ok := descKeywords[verb]; ok {
				add(verb)
			}
		}
		for _, term := range capitalizedTerms(jobDescription) {
			add(strings.ToLower(term))
		}
	}

	return field, keywords
}

// capitalizedTerms collects capitalized words from prose, skipping sentence
// starts so ordinary sentence case does not pollute the keyword list.
func capitalizedTerms(text string) []string {
	var terms []string
	for _, sentence := range SplitSentences(text) {
		words := strings.Fields(sentence)
		for i, w := range words {
			if i == 0 {
				continue
			}
			cleaned := strings.TrimFunc(w, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
			if len(cleaned) > 1 && unicode.IsUpper([]rune(cleaned)[0]) {
				terms = append(terms, cleaned)
			}
		}
	}
	return terms
}
