package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root application configuration. Values are resolved in
// precedence order: Vault secrets, then the config file, then RESUMELIFT_*
// environment variables, then defaults.
type Config struct {
	Engine        EngineConfig        `mapstructure:"engine"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// EngineConfig carries the rule engine's tuning knobs plus per-operation
// overrides. The top-level fields are the global fallbacks.
type EngineConfig struct {
	GoodThreshold      float64               `mapstructure:"goodThreshold"`
	ExcellentThreshold float64               `mapstructure:"excellentThreshold"`
	MaxSuggestions     int                   `mapstructure:"maxSuggestions"`
	QuantSaturation    int                   `mapstructure:"quantSaturation"`
	ShortWordLimit     int                   `mapstructure:"shortWordLimit"`
	TargetMinWords     int                   `mapstructure:"targetMinWords"`
	TargetMaxWords     int                   `mapstructure:"targetMaxWords"`
	Vocabulary         VocabularyFilesConfig `mapstructure:"vocabulary"`

	Optimize OperationEngineConfig `mapstructure:"optimize"`
	Analyze  OperationEngineConfig `mapstructure:"analyze"`
	Keywords OperationEngineConfig `mapstructure:"keywords"`
}

// OperationEngineConfig is a sparse overlay: nil pointer fields fall back to
// the global EngineConfig values.
type OperationEngineConfig struct {
	GoodThreshold      *float64              `mapstructure:"goodThreshold"`
	ExcellentThreshold *float64              `mapstructure:"excellentThreshold"`
	MaxSuggestions     *int                  `mapstructure:"maxSuggestions"`
	QuantSaturation    *int                  `mapstructure:"quantSaturation"`
	ShortWordLimit     *int                  `mapstructure:"shortWordLimit"`
	TargetMinWords     *int                  `mapstructure:"targetMinWords"`
	TargetMaxWords     *int                  `mapstructure:"targetMaxWords"`
	Vocabulary         VocabularyFilesConfig `mapstructure:"vocabulary"`
}

// VocabularyFilesConfig names external JSON files that override the built-in
// vocabulary lists.
type VocabularyFilesConfig struct {
	WeakWordsFile      string `mapstructure:"weakWordsFile"`
	ActionVerbsFile    string `mapstructure:"actionVerbsFile"`
	StopWordsFile      string `mapstructure:"stopWordsFile"`
	SectionAliasesFile string `mapstructure:"sectionAliasesFile"`
	FieldKeywordsFile  string `mapstructure:"fieldKeywordsFile"`
}

// ServerConfig configures the HTTP listener: address, timeouts, TLS,
// API-key auth, and rate limiting.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	TLS       TLSConfig       `mapstructure:"tls"`
	APIKeys   []string        `mapstructure:"apiKeys"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig configures the token-bucket limiter. ByIP and ByAPIKey may
// both be on; a request must pass every enabled bucket.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"`
}

// AppConfig holds CLI-facing settings: log level, output formats, and the
// input file size cap.
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// LoadConfig resolves the full configuration: defaults, then an optional
// config.yaml, then RESUMELIFT_* environment variables, then fallbacks and
// vocabulary file overrides, and finally validation.
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUMELIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/resumelift/")
	v.AddConfigPath("$HOME/.resumelift")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.validateVocabularyFiles(); err != nil {
		return nil, fmt.Errorf("vocabulary file validation failed: %w", err)
	}
	if err := config.loadVocabularyFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load vocabulary overrides from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed")
	return &config, nil
}

// Validate rejects configurations the engine or server cannot run with.
func (c *Config) Validate() error {
	if c.Engine.MaxSuggestions < 1 {
		return fmt.Errorf("engine maxSuggestions must be at least 1")
	}
	if c.Engine.QuantSaturation < 1 {
		return fmt.Errorf("engine quantSaturation must be at least 1")
	}
	if c.Engine.GoodThreshold < 0 || c.Engine.GoodThreshold > 100 ||
		c.Engine.ExcellentThreshold < 0 || c.Engine.ExcellentThreshold > 100 {
		return fmt.Errorf("engine thresholds must be within [0,100]")
	}
	if c.Engine.GoodThreshold > c.Engine.ExcellentThreshold {
		return fmt.Errorf("engine goodThreshold must not exceed excellentThreshold")
	}
	if c.Engine.TargetMinWords >= c.Engine.TargetMaxWords {
		return fmt.Errorf("engine targetMinWords must be below targetMaxWords")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	supported := false
	for _, format := range c.App.SupportedFormats {
		if format == c.App.DefaultFormat {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}
	return nil
}

// GlobalConfig is the process-wide configuration set by InitConfig.
var GlobalConfig *Config

// InitConfig loads the configuration into GlobalConfig.
func InitConfig() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	GlobalConfig = config
	return nil
}
