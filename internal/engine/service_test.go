package engine

import (
	"log/slog"
	"reflect"
	"testing"

	"resumelift/internal/config"
	"resumelift/internal/errors"
	"resumelift/internal/types"
)

func fullOperationConfig() *config.OperationEngineConfig {
	good, excellent := 70.0, 90.0
	maxSuggestions, quantSaturation := 6, 5
	shortLimit, minWords, maxWords := 100, 300, 800
	return &config.OperationEngineConfig{
		GoodThreshold:      &good,
		ExcellentThreshold: &excellent,
		MaxSuggestions:     &maxSuggestions,
		QuantSaturation:    &quantSaturation,
		ShortWordLimit:     &shortLimit,
		TargetMinWords:     &minWords,
		TargetMaxWords:     &maxWords,
	}
}

func TestNewService(t *testing.T) {
	svc, err := NewService(fullOperationConfig(), "optimize", errors.NewLogger(slog.LevelError))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Engine == nil {
		t.Fatal("expected an engine")
	}
	if err := svc.Engine.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
}

func TestBuildTuning(t *testing.T) {
	t.Run("empty config keeps defaults", func(t *testing.T) {
		got := buildTuning(&config.OperationEngineConfig{})
		if !reflect.DeepEqual(got, DefaultTuning()) {
			t.Errorf("buildTuning = %+v, expected defaults %+v", got, DefaultTuning())
		}
	})

	t.Run("set fields override defaults", func(t *testing.T) {
		maxSuggestions := 3
		got := buildTuning(&config.OperationEngineConfig{MaxSuggestions: &maxSuggestions})
		if got.MaxSuggestions != 3 {
			t.Errorf("maxSuggestions = %d, expected 3", got.MaxSuggestions)
		}
		if got.GoodThreshold != DefaultTuning().GoodThreshold {
			t.Errorf("unset fields must keep defaults, got %v", got.GoodThreshold)
		}
	})
}

func TestBuildVocabularyOverrides(t *testing.T) {
	t.Run("empty overrides keep defaults", func(t *testing.T) {
		vocab := buildVocabulary(config.LoadedVocabulary{})
		if len(vocab.WeakWords) != len(DefaultVocabulary().WeakWords) {
			t.Error("expected default weak words")
		}
	})

	t.Run("weak words replaced wholesale", func(t *testing.T) {
		vocab := buildVocabulary(config.LoadedVocabulary{
			WeakWords: map[string]string{"tried to": "attempted"},
		})
		if len(vocab.WeakWords) != 1 || vocab.WeakWords[0].From != "tried to" {
			t.Errorf("weak words = %#v, expected the single override", vocab.WeakWords)
		}
		if len(vocab.ActionVerbs) != len(DefaultVocabulary().ActionVerbs) {
			t.Error("unrelated lists must keep defaults")
		}
	})
}

func TestWeakWordListOrdering(t *testing.T) {
	got := weakWordList(map[string]string{
		"made":            "created",
		"responsible for": "managed",
		"did":             "executed",
		"worked on":       "developed",
	})

	expected := []WeakWord{
		{From: "responsible for", To: "managed"},
		{From: "worked on", To: "developed"},
		{From: "did", To: "executed"},
		{From: "made", To: "created"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("weakWordList = %#v, expected %#v", got, expected)
	}
}

func TestSectionAliasMap(t *testing.T) {
	got := sectionAliasMap(map[string]string{
		"Berufserfahrung": "experience",
		"Ausbildung":      "education",
		"Hobbies":         "interests",
	})

	if got["berufserfahrung"] != types.SectionExperience {
		t.Errorf("expected experience alias, got %q", got["berufserfahrung"])
	}
	if got["ausbildung"] != types.SectionEducation {
		t.Errorf("expected education alias, got %q", got["ausbildung"])
	}
	if _, ok := got["hobbies"]; ok {
		t.Error("unknown section kinds must be dropped")
	}
}
