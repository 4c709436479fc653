package server

import (
	"time"

	"resumelift/internal/config"
	resumeliftErrors "resumelift/internal/errors"
)

// OptimizeRequest is the body for POST /optimize.
type OptimizeRequest struct {
	ResumeContent    string `json:"resumeContent"`
	JobDescription   string `json:"jobDescription,omitempty"`
	OptimizationType string `json:"optimizationType,omitempty"`
}

// AnalyzeRequest is the body for POST /analyze.
type AnalyzeRequest struct {
	ResumeContent  string `json:"resumeContent"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// KeywordsRequest is the body for POST /keywords.
type KeywordsRequest struct {
	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// ErrorResponse is the error envelope every endpoint uses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server carries everything the HTTP endpoints need: the app config for
// per-operation engine construction, TLS and certificate state, auth keys,
// and the rate limiter.
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config

	TLSConfig          config.TLSConfig
	CertificateManager *CertificateManager

	// Kept after startup for the health endpoint's breaker report.
	VaultClient VaultClientInterface

	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Logger *resumeliftErrors.Logger
}

// ServerConfig bundles the constructor arguments for NewServer.
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer builds a Server, indexing API keys for lookup and starting the
// rate limiter only when enabled.
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *resumeliftErrors.Logger) *Server {
	apiKeys := make(map[string]bool, len(cfg.APIKeys))
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeys[key] = true
		}
	}

	var limiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		limiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.Window, cfg.RateLimit.BurstCapacity, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeys,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    limiter,
		Logger:         logger,
	}
}
