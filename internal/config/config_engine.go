package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationEngineConfig) {
	if opCfg.GoodThreshold == nil {
		opCfg.GoodThreshold = &c.Engine.GoodThreshold
	}
	if opCfg.ExcellentThreshold == nil {
		opCfg.ExcellentThreshold = &c.Engine.ExcellentThreshold
	}
	if opCfg.MaxSuggestions == nil {
		opCfg.MaxSuggestions = &c.Engine.MaxSuggestions
	}
	if opCfg.QuantSaturation == nil {
		opCfg.QuantSaturation = &c.Engine.QuantSaturation
	}
	if opCfg.ShortWordLimit == nil {
		opCfg.ShortWordLimit = &c.Engine.ShortWordLimit
	}
	if opCfg.TargetMinWords == nil {
		opCfg.TargetMinWords = &c.Engine.TargetMinWords
	}
	if opCfg.TargetMaxWords == nil {
		opCfg.TargetMaxWords = &c.Engine.TargetMaxWords
	}
	c.applyVocabularyDefaults(&opCfg.Vocabulary)
}

// applyVocabularyDefaults falls back to the global vocabulary file paths for
// any list the operation did not override
func (c *Config) applyVocabularyDefaults(vocab *VocabularyFilesConfig) {
	if vocab.WeakWordsFile == "" {
		vocab.WeakWordsFile = c.Engine.Vocabulary.WeakWordsFile
	}
	if vocab.ActionVerbsFile == "" {
		vocab.ActionVerbsFile = c.Engine.Vocabulary.ActionVerbsFile
	}
	if vocab.StopWordsFile == "" {
		vocab.StopWordsFile = c.Engine.Vocabulary.StopWordsFile
	}
	if vocab.SectionAliasesFile == "" {
		vocab.SectionAliasesFile = c.Engine.Vocabulary.SectionAliasesFile
	}
	if vocab.FieldKeywordsFile == "" {
		vocab.FieldKeywordsFile = c.Engine.Vocabulary.FieldKeywordsFile
	}
}

// GetOptimizeConfig returns the engine configuration for optimize operations with fallback to global config
func (c *Config) GetOptimizeConfig() OperationEngineConfig {
	config := c.Engine.Optimize
	c.applyOperationDefaults(&config)
	return config
}

// GetAnalyzeConfig returns the engine configuration for analyze operations with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationEngineConfig {
	config := c.Engine.Analyze
	c.applyOperationDefaults(&config)
	return config
}

// GetKeywordsConfig returns the engine configuration for keyword operations with fallback to global config
func (c *Config) GetKeywordsConfig() OperationEngineConfig {
	config := c.Engine.Keywords
	c.applyOperationDefaults(&config)
	return config
}

// GetLoadedVocabularyForOperation returns a copy of the vocabulary overrides
// loaded for an operation, falling back to the global overrides
func (c *Config) GetLoadedVocabularyForOperation(operationType string) LoadedVocabulary {
	return GetVocabularyForOperation(operationType)
}
