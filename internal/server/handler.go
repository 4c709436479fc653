package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumelift/internal/engine"
	resumeliftErrors "resumelift/internal/errors"
	"resumelift/internal/observability"
	"resumelift/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createOptimizeHandler wraps the optimize handler with observability
func (s *Server) createOptimizeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelift.api")
		ctx, span := tracer.Start(ctx, "api.optimize")
		defer span.End()

		// Parse request
		var req OptimizeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.ResumeContent) == "" {
			err := fmt.Errorf("missing resume content")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume content", "resumeContent field is required", http.StatusBadRequest)
			return
		}
		optimizationType := types.OptimizationType(req.OptimizationType)
		if req.OptimizationType != "" && !optimizationType.Valid() {
			err := fmt.Errorf("invalid optimization type: %s", req.OptimizationType)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid optimization type", "optimizationType must be one of: general, ats, keywords, format", http.StatusBadRequest)
			return
		}

		// Size validation
		if len(req.ResumeContent) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("resume content too large: %d chars", len(req.ResumeContent))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume content too large", fmt.Sprintf("resumeContent exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}
		if len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeContent)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("request.optimization_type", string(optimizationType)),
			attribute.String("operation", "optimize"),
		)

		input := types.OptimizeResumeInput{
			ResumeContent:    req.ResumeContent,
			JobDescription:   req.JobDescription,
			OptimizationType: optimizationType,
		}

		// Create engine service for optimize operation
		optimizeConfig := s.AppConfig.GetOptimizeConfig()
		engineService, err := engine.NewService(&optimizeConfig, "optimize", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create engine service", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track engine operation with observability and text stats
		metrics := om.GetMetrics()
		var result types.OptimizeResumeOutput
		err = metrics.TrackEngineOperation(ctx, "optimize", func(ctx context.Context) *observability.EngineOperationResult {
			output, stats, engineErr := engineService.Engine.OptimizeResume(ctx, input)
			result = output
			opResult := &observability.EngineOperationResult{
				Error:     engineErr,
				TextStats: (*observability.TextStats)(stats),
			}
			if engineErr == nil {
				opResult.Score = &output.Score
			}
			return opResult
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "engine_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_optimized", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to optimize resume", err.Error(), engineErrorStatus(err))
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "resume_optimized", true, om,
			attribute.String("optimization_type", string(optimizationType)),
			attribute.Float64("score", result.Score),
			attribute.Int("suggestion_count", len(result.Suggestions)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.score", result.Score),
			attribute.Int("response.suggestion_count", len(result.Suggestions)),
			attribute.Int("response.optimized_length", len(result.OptimizedContent)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelift.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation (similar to optimize)
		if strings.TrimSpace(req.ResumeContent) == "" {
			err := fmt.Errorf("missing resume content")
			span.RecordError(err)
			writeErrorResponse(w, "Missing resume content", "resumeContent field is required", http.StatusBadRequest)
			return
		}
		if len(req.ResumeContent) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("resume content too large: %d chars", len(req.ResumeContent))
			span.RecordError(err)
			writeErrorResponse(w, "Resume content too large", fmt.Sprintf("resumeContent exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeContent)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "analyze"),
		)

		input := types.AnalyzeResumeInput{
			ResumeContent:  req.ResumeContent,
			JobDescription: req.JobDescription,
		}

		// Create engine service for analyze operation
		analyzeConfig := s.AppConfig.GetAnalyzeConfig()
		engineService, err := engine.NewService(&analyzeConfig, "analyze", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create engine service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result types.AnalyzeResumeOutput
		err = metrics.TrackEngineOperation(ctx, "analyze", func(ctx context.Context) *observability.EngineOperationResult {
			output, stats, engineErr := engineService.Engine.AnalyzeResume(ctx, input)
			result = output
			opResult := &observability.EngineOperationResult{
				Error:     engineErr,
				TextStats: (*observability.TextStats)(stats),
			}
			if engineErr == nil {
				opResult.Score = &output.OverallScore
			}
			return opResult
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om)
			writeErrorResponse(w, "Failed to analyze resume", err.Error(), engineErrorStatus(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Float64("score", result.OverallScore),
			attribute.Int("weakness_count", len(result.Weaknesses)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.score", result.OverallScore),
			attribute.Int("response.strength_count", len(result.Strengths)),
			attribute.Int("response.weakness_count", len(result.Weaknesses)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createKeywordsHandler wraps the keywords handler with observability
func (s *Server) createKeywordsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumelift.api")
		ctx, span := tracer.Start(ctx, "api.keywords")
		defer span.End()

		var req KeywordsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.JobTitle) == "" {
			err := fmt.Errorf("missing job title")
			span.RecordError(err)
			writeErrorResponse(w, "Missing job title", "jobTitle field is required", http.StatusBadRequest)
			return
		}
		if len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "keywords"),
		)

		input := types.JobKeywordsInput{
			JobTitle:       req.JobTitle,
			JobDescription: req.JobDescription,
		}

		// Create engine service for keywords operation
		keywordsConfig := s.AppConfig.GetKeywordsConfig()
		engineService, err := engine.NewService(&keywordsConfig, "keywords", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create engine service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result types.JobKeywordsOutput
		err = metrics.TrackEngineOperation(ctx, "keywords", func(ctx context.Context) *observability.EngineOperationResult {
			output, stats, engineErr := engineService.Engine.JobKeywords(ctx, input)
			result = output
			return &observability.EngineOperationResult{
				Error:     engineErr,
				TextStats: (*observability.TextStats)(stats),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "keywords_recommended", false, om)
			writeErrorResponse(w, "Failed to recommend keywords", err.Error(), engineErrorStatus(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, "keywords_recommended", true, om,
			attribute.String("field", result.Field),
			attribute.Int("keyword_count", len(result.Keywords)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("response.field", result.Field),
			attribute.Int("response.keyword_count", len(result.Keywords)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// engineErrorStatus maps engine errors to HTTP status codes. Empty content
// is a client error, everything else is internal.
func engineErrorStatus(err error) int {
	if resumeliftErrors.IsEmptyContent(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// createRateLimitMiddleware layers a metric on the rate limiter: the status
// code is captured through a wrapping ResponseWriter, and a 429 bumps the
// rate-limit counter tagged with endpoint and method.
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	limit := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return limit(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next(recorder, r)

			if recorder.status == http.StatusTooManyRequests {
				om.GetMetrics().RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}
