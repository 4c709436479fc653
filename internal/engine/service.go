package engine

import (
	"context"
	"sort"
	"strings"

	"resumelift/internal/config"
	"resumelift/internal/errors"
	"resumelift/internal/types"
)

// Service handles rule-engine operations for resume processing
type Service struct {
	Engine Engine // Exported for access from server package
	config *config.OperationEngineConfig
	logger *errors.Logger
}

// NewService creates a new engine service instance with configuration for a specific operation
func NewService(cfg *config.OperationEngineConfig, operationType string, logger *errors.Logger) (*Service, error) {
	// Debug logging for service initialization
	logger.Debug("Initializing rule engine service",
		"operation_type", operationType,
		"good_threshold", *cfg.GoodThreshold,
		"excellent_threshold", *cfg.ExcellentThreshold,
		"max_suggestions", *cfg.MaxSuggestions,
		"quant_saturation", *cfg.QuantSaturation)

	vocab := buildVocabulary(config.GetVocabularyForOperation(operationType))
	tuning := buildTuning(cfg)

	eng, err := NewRuleEngine(vocab, tuning, logger)
	if err != nil {
		return nil, errors.NewEngineError(errors.ErrCodeEngineFailed,
			"Failed to create rule engine", err)
	}

	return &Service{
		Engine: eng,
		config: cfg,
		logger: logger,
	}, nil
}

// GetEngineInfo returns information about the rule engine for health checks
func (s *Service) GetEngineInfo(ctx context.Context) any {
	return s.Engine.GetEngineInfo(ctx)
}

// buildTuning maps operation configuration onto engine tuning, falling back
// to the built-in defaults for anything unset.
func buildTuning(cfg *config.OperationEngineConfig) Tuning {
	tuning := DefaultTuning()
	if cfg.GoodThreshold != nil {
		tuning.GoodThreshold = *cfg.GoodThreshold
	}
	if cfg.ExcellentThreshold != nil {
		tuning.ExcellentThreshold = *cfg.ExcellentThreshold
	}
	if cfg.MaxSuggestions != nil {
		tuning.MaxSuggestions = *cfg.MaxSuggestions
	}
	if cfg.QuantSaturation != nil {
		tuning.QuantSaturation = *cfg.QuantSaturation
	}
	if cfg.ShortWordLimit != nil {
		tuning.ShortWordLimit = *cfg.ShortWordLimit
	}
	if cfg.TargetMinWords != nil {
		tuning.TargetMinWords = *cfg.TargetMinWords
	}
	if cfg.TargetMaxWords != nil {
		tuning.TargetMaxWords = *cfg.TargetMaxWords
	}
	return tuning
}

// buildVocabulary overlays loaded vocabulary overrides onto the built-in
// defaults. Lists replace wholesale; an empty override keeps the default.
func buildVocabulary(overrides config.LoadedVocabulary) *Vocabulary {
	vocab := DefaultVocabulary()

	if len(overrides.WeakWords) > 0 {
		vocab.WeakWords = weakWordList(overrides.WeakWords)
	}
	if len(overrides.ActionVerbs) > 0 {
		vocab.ActionVerbs = overrides.ActionVerbs
	}
	if len(overrides.StopWords) > 0 {
		vocab.StopWords = toSet(overrides.StopWords)
	}
	if len(overrides.SectionAliases) > 0 {
		vocab.SectionAliases = sectionAliasMap(overrides.SectionAliases)
	}
	if len(overrides.FieldKeywords) > 0 {
		vocab.FieldKeywords = overrides.FieldKeywords
	}
	return vocab
}

// weakWordList converts a weak-word map into the ordered list the rewriter
// walks. Longer phrases sort first so they win over their single-word parts,
// and ties break alphabetically to keep output deterministic.
func weakWordList(m map[string]string) []WeakWord {
	list := make([]WeakWord, 0, len(m))
	for from, to := range m {
		list = append(list, WeakWord{From: strings.ToLower(from), To: to})
	}
	sort.Slice(list, func(i, j int) bool {
		wi, wj := strings.Count(list[i].From, " "), strings.Count(list[j].From, " ")
		if wi != wj {
			return wi > wj
		}
		return list[i].From < list[j].From
	})
	return list
}

// sectionAliasMap parses configured header aliases. Unknown kind names are
// dropped rather than failing the whole load.
func sectionAliasMap(m map[string]string) map[string]types.SectionKind {
	aliases := make(map[string]types.SectionKind, len(m))
	for alias, kind := range m {
		switch strings.ToLower(kind) {
		case "summary":
			aliases[strings.ToLower(alias)] = types.SectionSummary
		case "experience":
			aliases[strings.ToLower(alias)] = types.SectionExperience
		case "education":
			aliases[strings.ToLower(alias)] = types.SectionEducation
		case "skills":
			aliases[strings.ToLower(alias)] = types.SectionSkills
		}
	}
	return aliases
}
