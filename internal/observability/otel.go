package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumelift/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ObservabilityConfig is the flattened subset of the app config the
// telemetry setup needs.
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	Prometheus     PrometheusConfig
}

// ObservabilityManager owns the OTel tracer and meter providers plus the
// service's custom instruments. When the config disables observability it
// stays inert: Tracer hands out noop tracers and GetMetrics returns nil
// instruments that every record path checks for.
type ObservabilityManager struct {
	config         ObservabilityConfig
	appConfig      *config.Config // nested toggles (OTLP, custom-metric switches)
	res            *resource.Resource
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	promMux        *http.ServeMux
	shutdownFuncs  []func(context.Context) error
}

// NewObservabilityManager wires exporters, providers, and instruments from
// configuration. appConfig may be nil (CLI without a config file); nested
// toggles then default to on.
func NewObservabilityManager(obsConfig ObservabilityConfig, appConfig *config.Config) (*ObservabilityManager, error) {
	om := &ObservabilityManager{config: obsConfig, appConfig: appConfig}
	if !obsConfig.Enabled {
		return om, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(obsConfig.ServiceName),
			semconv.ServiceVersion(obsConfig.ServiceVersion),
			attribute.String("service.instance.id", om.serviceInstanceID()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("building otel resource: %w", err)
	}
	om.res = res

	if err := om.startTracing(); err != nil {
		return nil, err
	}
	if err := om.startMetrics(); err != nil {
		return nil, err
	}
	return om, nil
}

func (om *ObservabilityManager) startTracing() error {
	exporter, err := om.spanExporter()
	if err != nil {
		return fmt.Errorf("building trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(om.res),
		trace.WithSampler(trace.TraceIDRatioBased(om.config.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

// spanExporter picks console for development, OTLP when configured, and a
// discard exporter otherwise so sampling still produces spans for the
// middleware without anything to ship them to.
func (om *ObservabilityManager) spanExporter() (trace.SpanExporter, error) {
	switch {
	case om.config.ConsoleOutput:
		var opts []stdouttrace.Option
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		return stdouttrace.New(opts...)
	case om.appConfig != nil && om.appConfig.Observability.OTLP.Enabled:
		otlp := om.appConfig.Observability.OTLP
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(otlp.Endpoint)}
		if otlp.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(otlp.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(otlp.Headers))
		}
		return otlptracehttp.New(context.Background(), opts...)
	default:
		return discardSpanExporter{}, nil
	}
}

func (om *ObservabilityManager) startMetrics() error {
	readers, err := om.metricReaders()
	if err != nil {
		return err
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(om.res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}
	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(om.config.ServiceName))
	if err != nil {
		return err
	}
	om.metrics = metrics
	return nil
}

// metricReaders assembles every enabled reader: console, OTLP push, and the
// Prometheus pull bridge. Enabling several at once is fine; each reader gets
// the same instruments. With none enabled a manual reader keeps the provider
// valid.
func (om *ObservabilityManager) metricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if om.config.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("building console metric exporter: %w", err)
		}
		readers = append(readers,
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(om.collectionInterval())))
	}

	if om.appConfig != nil && om.appConfig.Observability.OTLP.Enabled {
		reader, err := om.otlpMetricReader()
		if err != nil {
			return nil, fmt.Errorf("building OTLP metric reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if om.config.Prometheus.Enabled {
		reader, mux, err := SetupPrometheusExporter(om.config.Prometheus)
		if err != nil {
			return nil, fmt.Errorf("building Prometheus exporter: %w", err)
		}
		readers = append(readers, reader)
		om.promMux = mux
		if err := StartPrometheusServer(mux, om.config.Prometheus.Port); err != nil {
			return nil, fmt.Errorf("starting Prometheus server: %w", err)
		}
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}
	return readers, nil
}

func (om *ObservabilityManager) otlpMetricReader() (sdkmetric.Reader, error) {
	otlp := om.appConfig.Observability.OTLP
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(otlp.Endpoint)}
	if otlp.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlp.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlp.Headers))
	}
	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(om.collectionInterval())), nil
}

// GetMetrics returns the custom instruments. Never nil, so callers can
// record unconditionally; with observability disabled the instruments inside
// are nil and recording is skipped.
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om.metrics == nil {
		return &Metrics{}
	}
	return om.metrics
}

// HTTPMiddleware wraps a handler in otelhttp server instrumentation.
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !om.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
	)
}

// Tracer returns a named tracer, or a noop one when disabled.
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops every provider that was started.
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	for _, shutdown := range om.shutdownFuncs {
		if err := shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (om *ObservabilityManager) serviceInstanceID() string {
	if om.appConfig != nil && om.appConfig.Observability.ServiceInstance != "" {
		return om.appConfig.Observability.ServiceInstance
	}
	return "resumelift-1"
}

func (om *ObservabilityManager) collectionInterval() time.Duration {
	if om.appConfig != nil {
		return om.appConfig.Observability.Metrics.CollectionInterval
	}
	return 15 * time.Second
}

// discardSpanExporter drops spans when neither console nor OTLP output is
// configured.
type discardSpanExporter struct{}

func (discardSpanExporter) ExportSpans(context.Context, []trace.ReadOnlySpan) error { return nil }
func (discardSpanExporter) Shutdown(context.Context) error                          { return nil }
