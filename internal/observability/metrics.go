package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Metrics holds the service's custom instruments. Zero value is safe to
// record against: nil instruments are skipped.
type Metrics struct {
	// engine pipeline
	EngineProcessingTime metric.Float64Histogram
	EngineRequestCount   metric.Int64Counter
	EngineErrorCount     metric.Int64Counter
	EngineWordCount      metric.Int64Histogram
	ResumeScore          metric.Float64Histogram

	// business counters
	ResumesOptimized    metric.Int64Counter
	ResumesAnalyzed     metric.Int64Counter
	KeywordsRecommended metric.Int64Counter

	// infrastructure
	CertReloadCount metric.Int64Counter
	CertExpiryTime  metric.Float64Gauge
	RateLimitHits   metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.EngineRequestCount, "resumelift_engine_requests_total", "Rule engine requests"},
		{&m.EngineErrorCount, "resumelift_engine_errors_total", "Rule engine request errors"},
		{&m.ResumesOptimized, "resumelift_resumes_optimized_total", "Resumes optimized"},
		{&m.ResumesAnalyzed, "resumelift_resumes_analyzed_total", "Resumes analyzed"},
		{&m.KeywordsRecommended, "resumelift_keywords_recommended_total", "Job keyword recommendations"},
		{&m.CertReloadCount, "resumelift_cert_reloads_total", "TLS certificate reloads"},
		{&m.RateLimitHits, "resumelift_rate_limit_hits_total", "Requests rejected by rate limiting"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("creating %s: %w", c.name, err)
		}
	}

	m.EngineProcessingTime, err = meter.Float64Histogram(
		"resumelift_engine_processing_duration_seconds",
		metric.WithDescription("Rule engine request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating engine duration histogram: %w", err)
	}

	m.EngineWordCount, err = meter.Int64Histogram(
		"resumelift_engine_word_count",
		metric.WithDescription("Words consumed and produced per engine request"),
		metric.WithUnit("words"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating word count histogram: %w", err)
	}

	m.ResumeScore, err = meter.Float64Histogram(
		"resumelift_resume_score",
		metric.WithDescription("Resume score distribution"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resume score histogram: %w", err)
	}

	m.CertExpiryTime, err = meter.Float64Gauge(
		"resumelift_cert_expiry_seconds",
		metric.WithDescription("Seconds until TLS certificate expiry"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cert expiry gauge: %w", err)
	}

	return m, nil
}

// TextStats carries word throughput from an engine response into metrics.
type TextStats struct {
	InputWords  int `json:"inputWords"`
	OutputWords int `json:"outputWords"`
}

// EngineOperationResult is what a tracked engine call reports back:
// the error (if any), optional word throughput, and optional score.
type EngineOperationResult struct {
	Error     error
	TextStats *TextStats
	Score     *float64
}

// TrackEngineOperation runs fn inside an "engine.<operation>" span and
// records duration, request/error counts, word throughput, and score. The
// span gets word and score attributes even when the corresponding metric
// toggle is off, so traces stay debuggable.
func (m *Metrics) TrackEngineOperation(ctx context.Context, operation string, fn func(context.Context) *EngineOperationResult, om *ObservabilityManager) error {
	if m.EngineProcessingTime == nil {
		if result := fn(ctx); result != nil {
			return result.Error
		}
		return nil
	}

	ctx, span := otel.Tracer("resumelift.engine").Start(ctx, "engine."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	elapsed := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if engineToggles(om).Enabled {
		m.recordEngineOperation(ctx, operation, err, elapsed, result, om, span)
	}
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}

func (m *Metrics) recordEngineOperation(ctx context.Context, operation string, err error, elapsed float64, result *EngineOperationResult, om *ObservabilityManager, span oteltrace.Span) {
	toggles := engineToggles(om)
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if toggles.TrackDuration {
		m.EngineProcessingTime.Record(ctx, elapsed, metric.WithAttributes(attrs...))
	}
	m.EngineRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.EngineErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if result != nil && result.TextStats != nil && m.EngineWordCount != nil {
		if toggles.TrackWordCounts {
			for direction, words := range map[string]int{
				"input":  result.TextStats.InputWords,
				"output": result.TextStats.OutputWords,
			} {
				m.EngineWordCount.Record(ctx, int64(words),
					metric.WithAttributes(append(attrs, attribute.String("direction", direction))...))
			}
		}
		span.SetAttributes(
			attribute.Int("engine.words.input", result.TextStats.InputWords),
			attribute.Int("engine.words.output", result.TextStats.OutputWords),
		)
	}

	if result != nil && result.Score != nil && m.ResumeScore != nil {
		if toggles.TrackScores {
			m.ResumeScore.Record(ctx, *result.Score, metric.WithAttributes(attrs...))
		}
		span.SetAttributes(attribute.Float64("engine.score", *result.Score))
	}

	span.SetAttributes(attrs...)
}

// RecordBusinessMetric bumps the counter named by metricType. Unknown types
// are ignored rather than failing a request over a telemetry typo.
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if om.appConfig != nil && !om.appConfig.Observability.CustomMetrics.BusinessMetrics.Enabled {
		return
	}

	attrs := append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)

	var counter metric.Int64Counter
	switch metricType {
	case "resume_optimized":
		counter = m.ResumesOptimized
	case "resume_analyzed":
		counter = m.ResumesAnalyzed
	case "keywords_recommended":
		counter = m.KeywordsRecommended
	case "rate_limit_hit":
		if om.appConfig != nil && !om.appConfig.Observability.CustomMetrics.Infrastructure.TrackRateLimits {
			return
		}
		counter = m.RateLimitHits
	}
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

type engineMetricToggles struct {
	Enabled         bool
	TrackDuration   bool
	TrackWordCounts bool
	TrackScores     bool
}

func engineToggles(om *ObservabilityManager) engineMetricToggles {
	if om == nil || om.appConfig == nil {
		return engineMetricToggles{Enabled: true, TrackDuration: true, TrackWordCounts: true, TrackScores: true}
	}
	ops := om.appConfig.Observability.CustomMetrics.EngineOperations
	return engineMetricToggles{
		Enabled:         ops.Enabled,
		TrackDuration:   ops.TrackDuration,
		TrackWordCounts: ops.TrackWordCounts,
		TrackScores:     ops.TrackScores,
	}
}
