package config

import (
	"sync"
)

var (
	loadedVocabulary     AllLoadedVocabulary
	loadedVocabularyOnce sync.Once
)

// LoadedVocabulary holds vocabulary overrides loaded from external files.
// Empty fields mean the engine's built-in list stays in effect.
type LoadedVocabulary struct {
	WeakWords      map[string]string
	ActionVerbs    []string
	StopWords      []string
	SectionAliases map[string]string
	FieldKeywords  map[string][]string
}

// merge overlays non-empty lists from other onto a copy of v.
func (v LoadedVocabulary) merge(other LoadedVocabulary) LoadedVocabulary {
	result := v
	if len(other.WeakWords) > 0 {
		result.WeakWords = other.WeakWords
	}
	if len(other.ActionVerbs) > 0 {
		result.ActionVerbs = other.ActionVerbs
	}
	if len(other.StopWords) > 0 {
		result.StopWords = other.StopWords
	}
	if len(other.SectionAliases) > 0 {
		result.SectionAliases = other.SectionAliases
	}
	if len(other.FieldKeywords) > 0 {
		result.FieldKeywords = other.FieldKeywords
	}
	return result
}

// AllLoadedVocabulary holds loaded vocabulary overrides for all operations
type AllLoadedVocabulary struct {
	Global   LoadedVocabulary
	Optimize LoadedVocabulary
	Analyze  LoadedVocabulary
	Keywords LoadedVocabulary
}

// GetVocabularyForOperation returns the effective vocabulary overrides for an
// operation type: the global overrides with the operation's own on top
func GetVocabularyForOperation(operationType string) LoadedVocabulary {
	switch operationType {
	case "optimize":
		return loadedVocabulary.Global.merge(loadedVocabulary.Optimize)
	case "analyze":
		return loadedVocabulary.Global.merge(loadedVocabulary.Analyze)
	case "keywords":
		return loadedVocabulary.Global.merge(loadedVocabulary.Keywords)
	default:
		return loadedVocabulary.Global
	}
}
