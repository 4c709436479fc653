package engine

import (
	"context"

	"resumelift/internal/types"
)

// Engine is the rule-engine interface the CLI and server program against.
// All methods return text statistics - callers can ignore them if not needed.
type Engine interface {
	OptimizeResume(ctx context.Context, input types.OptimizeResumeInput) (types.OptimizeResumeOutput, *TextStats, error)
	AnalyzeResume(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalyzeResumeOutput, *TextStats, error)
	JobKeywords(ctx context.Context, input types.JobKeywordsInput) (types.JobKeywordsOutput, *TextStats, error)
	GetEngineInfo(ctx context.Context) *EngineInfo
	Close() error
}

// TextStats reports how much text an operation consumed and produced.
type TextStats struct {
	InputWords  int `json:"inputWords"`
	OutputWords int `json:"outputWords"`
}

// EngineInfo describes the active rule engine for health checks.
type EngineInfo struct {
	Name          string `json:"name"`
	RuleVersion   string `json:"ruleVersion"`
	Deterministic bool   `json:"deterministic"`
	SectionKinds  int    `json:"sectionKinds"`
	WeakWords     int    `json:"weakWords"`
}
