package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"resumelift/internal/config"
	"resumelift/internal/engine"
)

// healthHandler reports service health: per-operation engine status, Vault
// circuit breaker state, and TLS certificate expiry. Returns 503 with
// status "degraded" when any engine or certificate check fails.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	engines := s.checkEngineHealth()
	certs := s.checkCertificateHealth()

	response := map[string]any{
		"status":  "healthy",
		"service": "resumelift",
		"version": s.Version,
		"engines": engines,
	}
	if vault := s.checkVaultBreakerHealth(); vault != nil {
		response["vault"] = vault
	}
	if certs != nil {
		response["certificates"] = certs
	}

	if !enginesHealthy(engines) || !certsHealthy(certs) {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	writeJSON(w, response)
}

func enginesHealthy(engines map[string]any) bool {
	for _, st := range engines {
		info, ok := st.(map[string]any)
		if !ok {
			continue
		}
		if available, ok := info["available"].(bool); ok && !available {
			return false
		}
	}
	return true
}

func certsHealthy(certs map[string]any) bool {
	if certs == nil {
		return true
	}
	healthy, ok := certs["healthy"].(bool)
	return !ok || healthy
}

// checkEngineHealth constructs the rule engine for each operation and
// collects its info, so a bad per-operation config surfaces here instead of
// on the first real request.
func (s *Server) checkEngineHealth() map[string]any {
	ctx, cancel := context.WithTimeout(context.Background(), s.AppConfig.Observability.HealthCheck.Timeout)
	defer cancel()

	operations := map[string]config.OperationEngineConfig{
		"optimize": s.AppConfig.GetOptimizeConfig(),
		"analyze":  s.AppConfig.GetAnalyzeConfig(),
		"keywords": s.AppConfig.GetKeywordsConfig(),
	}

	status := make(map[string]any, len(operations))
	for name, opConfig := range operations {
		svc, err := engine.NewService(&opConfig, name, s.Logger)
		if err != nil {
			status[name] = map[string]any{
				"available": false,
				"error":     fmt.Sprintf("creating %s service: %v", name, err),
			}
			continue
		}
		status[name] = svc.GetEngineInfo(ctx)
	}
	return status
}

// breakerReporter is implemented by Vault clients that expose circuit
// breaker state.
type breakerReporter interface {
	BreakerStats() map[string]any
	IsHealthy() bool
}

func (s *Server) checkVaultBreakerHealth() map[string]any {
	if s.VaultClient == nil {
		return nil
	}
	reporter, ok := s.VaultClient.(breakerReporter)
	if !ok {
		return map[string]any{
			"available": true,
			"message":   "Vault client active, no circuit breaker configured",
		}
	}
	return map[string]any{
		"available":       true,
		"healthy":         reporter.IsHealthy(),
		"circuit_breaker": reporter.BreakerStats(),
	}
}

// checkCertificateHealth grades time-to-expiry: expired and <24h are
// unhealthy, <7d is a warning, otherwise ok. Also reports watcher and reload
// state so operators can tell whether rotation is actually working.
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertificateManager == nil {
		return nil
	}

	timeToExpiry, err := s.CertificateManager.CheckExpiry()
	if err != nil {
		return map[string]any{
			"healthy": false,
			"error":   fmt.Sprintf("checking certificate expiry: %v", err),
		}
	}

	status := map[string]any{
		"time_to_expiry_hours": int(timeToExpiry.Hours()),
		"time_to_expiry":       timeToExpiry.String(),
	}

	switch {
	case timeToExpiry <= 0:
		status["healthy"] = false
		status["status"] = "expired"
		status["message"] = "Certificate has expired"
	case timeToExpiry <= 24*time.Hour:
		status["healthy"] = false
		status["status"] = "critical"
		status["message"] = "Certificate expires within 24 hours"
	case timeToExpiry <= 7*24*time.Hour:
		status["healthy"] = true
		status["status"] = "warning"
		status["message"] = "Certificate expires within 7 days"
	default:
		status["healthy"] = true
		status["status"] = "ok"
		status["message"] = "Certificate is valid"
	}

	autoReload := map[string]any{"enabled": s.TLSConfig.AutoReload.Enabled}
	if s.TLSConfig.AutoReload.Enabled {
		autoReload["file_watcher_enabled"] = s.TLSConfig.AutoReload.FileWatcher.Enabled
		autoReload["vault_watcher_enabled"] = s.TLSConfig.AutoReload.VaultWatcher.Enabled
		if fw := s.CertificateManager.fileWatcher; fw != nil {
			autoReload["file_watcher_running"] = fw.IsRunning()
			autoReload["watched_files"] = fw.GetWatchedFiles()
		}
		if vw := s.CertificateManager.vaultWatcher; vw != nil {
			autoReload["vault_watcher_status"] = vw.Status()
		}
	}
	status["auto_reload"] = autoReload

	if metrics := s.CertificateManager.GetMetrics(); metrics != nil {
		status["metrics"] = map[string]any{
			"reload_count":         metrics.ReloadCount,
			"reload_success_count": metrics.ReloadSuccessCount,
			"reload_failure_count": metrics.ReloadFailureCount,
			"last_reload_time":     metrics.LastReloadTime,
			"last_reload_success":  metrics.LastReloadSuccess,
			"last_reload_error":    metrics.LastReloadError,
		}
	}

	return status
}

// statsHandler reports request-size limits and rate limiter state.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumelift",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, response)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest decodes the request body, translating the body-limit
// middleware's MaxBytesError into a message that names the limit.
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// writeErrorResponse writes the standard error envelope.
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: error, Message: message}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
