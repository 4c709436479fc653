package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadVocabularyFromFiles loads vocabulary overrides from external JSON files
// if file paths are specified
func (c *Config) loadVocabularyFromFiles() error {
	log.Println("[CONFIG] Starting vocabulary override loading from files")

	// Initialize loaded vocabulary exactly once
	loadedVocabularyOnce.Do(func() {
		loadedVocabulary = AllLoadedVocabulary{}
	})

	if err := loadVocabularySet(&c.Engine.Vocabulary, &loadedVocabulary.Global, "global"); err != nil {
		return err
	}
	if err := loadVocabularySet(&c.Engine.Optimize.Vocabulary, &loadedVocabulary.Optimize, "optimize"); err != nil {
		return err
	}
	if err := loadVocabularySet(&c.Engine.Analyze.Vocabulary, &loadedVocabulary.Analyze, "analyze"); err != nil {
		return err
	}
	if err := loadVocabularySet(&c.Engine.Keywords.Vocabulary, &loadedVocabulary.Keywords, "keywords"); err != nil {
		return err
	}

	c.logVocabularyLoadingSummary()
	return nil
}

// loadVocabularySet loads every configured file of one vocabulary set
func loadVocabularySet(files *VocabularyFilesConfig, target *LoadedVocabulary, scope string) error {
	if files.WeakWordsFile != "" {
		if err := loadVocabularyFile(files.WeakWordsFile, scope, "weakWords", &target.WeakWords); err != nil {
			return err
		}
	}
	if files.ActionVerbsFile != "" {
		if err := loadVocabularyFile(files.ActionVerbsFile, scope, "actionVerbs", &target.ActionVerbs); err != nil {
			return err
		}
	}
	if files.StopWordsFile != "" {
		if err := loadVocabularyFile(files.StopWordsFile, scope, "stopWords", &target.StopWords); err != nil {
			return err
		}
	}
	if files.SectionAliasesFile != "" {
		if err := loadVocabularyFile(files.SectionAliasesFile, scope, "sectionAliases", &target.SectionAliases); err != nil {
			return err
		}
	}
	if files.FieldKeywordsFile != "" {
		if err := loadVocabularyFile(files.FieldKeywordsFile, scope, "fieldKeywords", &target.FieldKeywords); err != nil {
			return err
		}
	}
	return nil
}

// loadVocabularyFile loads one JSON vocabulary file into target with proper
// error handling and logging
func loadVocabularyFile[T any](filePath, scope, listName string, target *T) error {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path for %s %s vocabulary file '%s': %w", scope, listName, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("%s %s vocabulary file not found: %s", scope, listName, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read %s %s vocabulary file '%s': %w", scope, listName, absPath, err)
	}

	if strings.TrimSpace(string(content)) == "" {
		return fmt.Errorf("%s %s vocabulary file '%s' is empty", scope, listName, absPath)
	}

	if err := json.Unmarshal(content, target); err != nil {
		return fmt.Errorf("failed to parse %s %s vocabulary file '%s': %w", scope, listName, absPath, err)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s vocabulary from file: %s (%d bytes)",
		scope, listName, absPath, len(content))
	return nil
}

// validateVocabularyFiles validates that vocabulary files exist and are
// readable before loading
func (c *Config) validateVocabularyFiles() error {
	var validationErrors []string

	validateFile := func(filePath, scope, listName string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s vocabulary: %s", scope, listName, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s vocabulary file not found: %s", scope, listName, absPath))
		}
	}

	sets := []struct {
		scope string
		files VocabularyFilesConfig
	}{
		{"global", c.Engine.Vocabulary},
		{"optimize", c.Engine.Optimize.Vocabulary},
		{"analyze", c.Engine.Analyze.Vocabulary},
		{"keywords", c.Engine.Keywords.Vocabulary},
	}
	for _, set := range sets {
		validateFile(set.files.WeakWordsFile, set.scope, "weakWords")
		validateFile(set.files.ActionVerbsFile, set.scope, "actionVerbs")
		validateFile(set.files.StopWordsFile, set.scope, "stopWords")
		validateFile(set.files.SectionAliasesFile, set.scope, "sectionAliases")
		validateFile(set.files.FieldKeywordsFile, set.scope, "fieldKeywords")
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("vocabulary file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logVocabularyLoadingSummary logs a summary of loaded vocabulary overrides
func (c *Config) logVocabularyLoadingSummary() {
	log.Println("[CONFIG] === Vocabulary Override Loading Summary ===")

	count := 0
	checks := []struct {
		loaded  bool
		message string
	}{
		{len(loadedVocabulary.Global.WeakWords) > 0, "[CONFIG] Global weak-word overrides: loaded from file"},
		{len(loadedVocabulary.Global.ActionVerbs) > 0, "[CONFIG] Global action-verb overrides: loaded from file"},
		{len(loadedVocabulary.Global.StopWords) > 0, "[CONFIG] Global stop-word overrides: loaded from file"},
		{len(loadedVocabulary.Global.SectionAliases) > 0, "[CONFIG] Global section-alias overrides: loaded from file"},
		{len(loadedVocabulary.Global.FieldKeywords) > 0, "[CONFIG] Global field-keyword overrides: loaded from file"},
		{len(loadedVocabulary.Optimize.WeakWords) > 0 || len(loadedVocabulary.Optimize.ActionVerbs) > 0, "[CONFIG] Optimize-specific vocabulary overrides: loaded from file"},
		{len(loadedVocabulary.Analyze.WeakWords) > 0 || len(loadedVocabulary.Analyze.ActionVerbs) > 0, "[CONFIG] Analyze-specific vocabulary overrides: loaded from file"},
		{len(loadedVocabulary.Keywords.FieldKeywords) > 0, "[CONFIG] Keywords-specific field-keyword overrides: loaded from file"},
	}
	for _, check := range checks {
		if check.loaded {
			log.Println(check.message)
			count++
		}
	}

	if count == 0 {
		log.Println("[CONFIG] No vocabulary overrides loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total vocabulary override sets loaded: %d", count)
	}

	log.Println("[CONFIG] ==========================================")
}
