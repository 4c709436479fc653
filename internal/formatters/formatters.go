package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumelift/internal/types"
)

// Formatter renders one output type in one format. SupportedType names the
// concrete output type, or "any" for type-agnostic formatters.
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry resolves (output type, format) pairs to formatters. A
// format may carry an "any" entry as its fallback; that is how JSON covers
// all three output types with one formatter.
type FormatterRegistry struct {
	byFormat map[string]map[string]Formatter
}

// NewFormatterRegistry builds a registry preloaded with the json, text, and
// markdown formatters for every engine output type.
func NewFormatterRegistry() *FormatterRegistry {
	fr := &FormatterRegistry{byFormat: make(map[string]map[string]Formatter)}

	fr.RegisterFormatter("json", "any", &JSONFormatter{})
	for dataType, pair := range map[string][2]Formatter{
		"OptimizeResumeOutput": {&OptimizeTextFormatter{}, &OptimizeMarkdownFormatter{}},
		"AnalyzeResumeOutput":  {&AnalyzeTextFormatter{}, &AnalyzeMarkdownFormatter{}},
		"JobKeywordsOutput":    {&JobKeywordsTextFormatter{}, &JobKeywordsMarkdownFormatter{}},
	} {
		fr.RegisterFormatter("text", dataType, pair[0])
		fr.RegisterFormatter("markdown", dataType, pair[1])
	}
	return fr
}

// RegisterFormatter adds or replaces the formatter for a format and type.
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.byFormat[format] == nil {
		fr.byFormat[format] = make(map[string]Formatter)
	}
	fr.byFormat[format][dataType] = formatter
}

// Format renders data in the named format, falling back to the format's
// "any" entry when no type-specific formatter is registered.
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := outputTypeName(data)
	byType := fr.byFormat[format]
	if f, ok := byType[dataType]; ok {
		return f.Format(data)
	}
	if f, ok := byType["any"]; ok {
		return f.Format(data)
	}
	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats lists every registered format name.
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.byFormat))
	for format := range fr.byFormat {
		formats = append(formats, format)
	}
	return formats
}

func outputTypeName(data any) string {
	switch data.(type) {
	case types.OptimizeResumeOutput:
		return "OptimizeResumeOutput"
	case types.AnalyzeResumeOutput:
		return "AnalyzeResumeOutput"
	case types.JobKeywordsOutput:
		return "JobKeywordsOutput"
	default:
		return "any"
	}
}

// JSONFormatter marshals any output type with indentation.
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// writeBreakdownText renders the score breakdown one criterion per line. The
// keyword alignment line only appears when a job description was supplied.
func writeBreakdownText(output *strings.Builder, breakdown types.ScoreBreakdown) {
	output.WriteString(fmt.Sprintf("Structure:        %.1f/100\n", breakdown.Structure))
	output.WriteString(fmt.Sprintf("Quantification:   %.1f/100\n", breakdown.Quantification))
	output.WriteString(fmt.Sprintf("Length:           %.1f/100\n", breakdown.Length))
	if breakdown.KeywordAlignment != nil {
		output.WriteString(fmt.Sprintf("Keyword Match:    %.1f/100\n", *breakdown.KeywordAlignment))
	}
}

func writeBreakdownMarkdown(output *strings.Builder, breakdown types.ScoreBreakdown) {
	output.WriteString(fmt.Sprintf("- **Structure:** %.1f/100\n", breakdown.Structure))
	output.WriteString(fmt.Sprintf("- **Quantification:** %.1f/100\n", breakdown.Quantification))
	output.WriteString(fmt.Sprintf("- **Length:** %.1f/100\n", breakdown.Length))
	if breakdown.KeywordAlignment != nil {
		output.WriteString(fmt.Sprintf("- **Keyword Match:** %.1f/100\n", *breakdown.KeywordAlignment))
	}
}

// OptimizeTextFormatter renders an optimization result for the terminal.
type OptimizeTextFormatter struct{}

func (otf *OptimizeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.OptimizeResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected OptimizeResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME SCORE ===\n")
	output.WriteString(fmt.Sprintf("Overall: %.1f/100\n\n", result.Score))
	writeBreakdownText(&output, result.ScoreBreakdown)
	output.WriteString("\n")

	output.WriteString("=== SUGGESTIONS ===\n")
	for i, suggestion := range result.Suggestions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
	}
	output.WriteString("\n")

	output.WriteString("=== OPTIMIZED RESUME ===\n\n")
	output.WriteString(result.OptimizedContent)
	output.WriteString("\n")

	return output.String(), nil
}

func (otf *OptimizeTextFormatter) SupportedType() string {
	return "OptimizeResumeOutput"
}

// OptimizeMarkdownFormatter renders an optimization result as markdown,
// fencing the rewritten resume so its formatting survives.
type OptimizeMarkdownFormatter struct{}

func (omf *OptimizeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.OptimizeResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected OptimizeResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Optimization\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %.1f/100\n\n", result.Score))

	output.WriteString("## Score Breakdown\n\n")
	writeBreakdownMarkdown(&output, result.ScoreBreakdown)
	output.WriteString("\n")

	output.WriteString("## Suggestions\n\n")
	for i, suggestion := range result.Suggestions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
	}
	output.WriteString("\n")

	output.WriteString("## Optimized Resume\n\n")
	output.WriteString("```\n")
	output.WriteString(result.OptimizedContent)
	output.WriteString("```\n")

	return output.String(), nil
}

func (omf *OptimizeMarkdownFormatter) SupportedType() string {
	return "OptimizeResumeOutput"
}

// AnalyzeTextFormatter renders an analysis report for the terminal.
// Sections with no content are omitted.
type AnalyzeTextFormatter struct{}

func (atf *AnalyzeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalyzeResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected AnalyzeResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Overall Score: %.1f/100\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("Word Count: %d\n", result.WordCount))
	output.WriteString(fmt.Sprintf("Reading Level: %s\n\n", result.ReadingLevel))

	writeBreakdownText(&output, result.ScoreBreakdown)
	output.WriteString("\n")

	output.WriteString("=== STRENGTHS ===\n")
	for _, strength := range result.Strengths {
		output.WriteString(fmt.Sprintf("- %s\n", strength))
	}
	output.WriteString("\n")

	if len(result.Weaknesses) > 0 {
		output.WriteString("=== WEAKNESSES ===\n")
		for _, weakness := range result.Weaknesses {
			output.WriteString(fmt.Sprintf("- %s\n", weakness))
		}
		output.WriteString("\n")
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("=== MISSING KEYWORDS ===\n")
		output.WriteString(strings.Join(result.MissingKeywords, ", "))
		output.WriteString("\n\n")
	}

	if len(result.RecommendedSections) > 0 {
		output.WriteString("=== RECOMMENDED SECTIONS ===\n")
		for _, section := range result.RecommendedSections {
			output.WriteString(fmt.Sprintf("- %s\n", section))
		}
	}

	return output.String(), nil
}

func (atf *AnalyzeTextFormatter) SupportedType() string {
	return "AnalyzeResumeOutput"
}

// AnalyzeMarkdownFormatter renders an analysis report as markdown.
type AnalyzeMarkdownFormatter struct{}

func (amf *AnalyzeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalyzeResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected AnalyzeResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %.1f/100\n\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("**Word Count:** %d | **Reading Level:** %s\n\n", result.WordCount, result.ReadingLevel))

	output.WriteString("## Score Breakdown\n\n")
	writeBreakdownMarkdown(&output, result.ScoreBreakdown)
	output.WriteString("\n")

	output.WriteString("## Strengths\n\n")
	for _, strength := range result.Strengths {
		output.WriteString(fmt.Sprintf("- %s\n", strength))
	}
	output.WriteString("\n")

	if len(result.Weaknesses) > 0 {
		output.WriteString("## Weaknesses\n\n")
		for _, weakness := range result.Weaknesses {
			output.WriteString(fmt.Sprintf("- %s\n", weakness))
		}
		output.WriteString("\n")
	}

	if len(result.MissingKeywords) > 0 {
		output.WriteString("## Missing Keywords\n\n")
		output.WriteString(strings.Join(result.MissingKeywords, ", "))
		output.WriteString("\n\n")
	}

	if len(result.RecommendedSections) > 0 {
		output.WriteString("## Recommended Sections\n\n")
		for _, section := range result.RecommendedSections {
			output.WriteString(fmt.Sprintf("- %s\n", section))
		}
	}

	return output.String(), nil
}

func (amf *AnalyzeMarkdownFormatter) SupportedType() string {
	return "AnalyzeResumeOutput"
}

// JobKeywordsTextFormatter renders a keyword recommendation list.
type JobKeywordsTextFormatter struct{}

func (jktf *JobKeywordsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobKeywordsOutput)
	if !ok {
		return "", fmt.Errorf("expected JobKeywordsOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RECOMMENDED KEYWORDS ===\n")
	output.WriteString(fmt.Sprintf("Detected Field: %s\n\n", result.Field))
	for _, keyword := range result.Keywords {
		output.WriteString(fmt.Sprintf("- %s\n", keyword))
	}

	return output.String(), nil
}

func (jktf *JobKeywordsTextFormatter) SupportedType() string {
	return "JobKeywordsOutput"
}

// JobKeywordsMarkdownFormatter renders a keyword recommendation list as
// markdown.
type JobKeywordsMarkdownFormatter struct{}

func (jkmf *JobKeywordsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobKeywordsOutput)
	if !ok {
		return "", fmt.Errorf("expected JobKeywordsOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Recommended Keywords\n\n")
	output.WriteString(fmt.Sprintf("**Detected Field:** %s\n\n", result.Field))
	for _, keyword := range result.Keywords {
		output.WriteString(fmt.Sprintf("- %s\n", keyword))
	}

	return output.String(), nil
}

func (jkmf *JobKeywordsMarkdownFormatter) SupportedType() string {
	return "JobKeywordsOutput"
}

// GlobalRegistry is the registry the CLI output path uses.
var GlobalRegistry = NewFormatterRegistry()
