package config

import "time"

// ObservabilityConfig controls tracing and metrics: what to sample, which
// exporters to run, and which custom metric groups to record.
type ObservabilityConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	ServiceName     string  `mapstructure:"serviceName"`
	ServiceVersion  string  `mapstructure:"serviceVersion"`
	ServiceInstance string  `mapstructure:"serviceInstance"`
	ConsoleOutput   bool    `mapstructure:"consoleOutput"`
	SampleRate      float64 `mapstructure:"sampleRate"`

	Tracing       TracingConfig       `mapstructure:"tracing"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics CustomMetricsConfig `mapstructure:"customMetrics"`
	Console       ConsoleConfig       `mapstructure:"console"`
	Prometheus    PrometheusConfig    `mapstructure:"prometheus"`
	OTLP          OTLPConfig          `mapstructure:"otlp"`
	HealthCheck   HealthCheckConfig   `mapstructure:"healthCheck"`
}

type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig gates the service's own instruments by group, so
// operators can run infrastructure metrics without per-request ones.
type CustomMetricsConfig struct {
	EngineOperations EngineOperationsMetricsConfig `mapstructure:"engineOperations"`
	BusinessMetrics  BusinessMetricsConfig         `mapstructure:"businessMetrics"`
	Infrastructure   InfrastructureMetricsConfig   `mapstructure:"infrastructure"`
}

type EngineOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackWordCounts bool `mapstructure:"trackWordCounts"`
	TrackScores     bool `mapstructure:"trackScores"`
}

type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
	TrackCertExpiry bool `mapstructure:"trackCertExpiry"`
}

// PrometheusConfig runs the scrape endpoint on its own port, separate from
// the API listener.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig configures the push exporters for traces and metrics.
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig bounds how long the health endpoint may spend probing
// engines.
type HealthCheckConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	EngineCheckTimeout time.Duration `mapstructure:"engineCheckTimeout"`
}
