// Copyright 2025 The Treeline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"treeline.dev/router"
	"treeline.dev/router/internal/pathfilter"
)

// meterName identifies this package's instruments to the meter provider.
const meterName = "treeline.dev/router/metrics"

// Default histogram buckets, suitable for most HTTP services. Override with
// [WithDurationBuckets] and [WithSizeBuckets].
var (
	// DefaultDurationBuckets are histogram boundaries for request duration
	// in seconds, covering sub-millisecond to ten-second responses.
	DefaultDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

	// DefaultSizeBuckets are histogram boundaries for request and response
	// sizes in bytes, covering 100B to 10MB.
	DefaultSizeBuckets = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
)

// Provider selects the exporter backing a Recorder.
type Provider string

const (
	// PrometheusProvider exports through a pull-based Prometheus registry
	// served by [Recorder.Handler]. This is the default.
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics to an OTLP collector over HTTP.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics to stdout. Development and testing only.
	StdoutProvider Provider = "stdout"
)

// noopLogger discards internal operational messages unless WithLogger is set.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ router.ObservabilityRecorder = (*Recorder)(nil)

// Recorder records per-request HTTP metrics. It implements
// [router.ObservabilityRecorder]; register it with router.WithObservability.
// All methods are safe for concurrent use.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusRegistry *promclient.Registry
	prometheusHandler  http.Handler
	logger             *slog.Logger

	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	activeRequests  metric.Int64UpDownCounter
	requestSize     metric.Int64Histogram
	responseSize    metric.Int64Histogram
	errorCount      metric.Int64Counter

	exclude *pathfilter.Filter

	durationBuckets []float64
	sizeBuckets     []float64

	serviceName    string
	serviceVersion string
	otlpEndpoint   string
	exportInterval time.Duration

	serviceNameAttr    attribute.KeyValue
	serviceVersionAttr attribute.KeyValue

	provider            Provider
	providerSetCount    int
	customMeterProvider bool
	shuttingDown        atomic.Bool
}

// New creates a [Recorder] with the given options and initializes the
// configured exporter. The global OpenTelemetry meter provider is never
// registered, so multiple Recorders can coexist in one process.
func New(opts ...Option) (*Recorder, error) {
	r := newDefaultRecorder()
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := r.initProvider(); err != nil {
		return nil, fmt.Errorf("initialize metrics: %w", err)
	}
	return r, nil
}

// MustNew is like [New] but panics when construction fails. Intended for
// wiring done at program start, where a bad configuration should stop the
// process.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics: %v", err))
	}
	return r
}

func newDefaultRecorder() *Recorder {
	return &Recorder{
		logger:          noopLogger,
		exclude:         pathfilter.New(),
		provider:        PrometheusProvider,
		serviceName:     "treeline-service",
		serviceVersion:  "1.0.0",
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		sizeBuckets:     DefaultSizeBuckets,
	}
}

func (r *Recorder) validate() error {
	if r.providerSetCount > 1 {
		return fmt.Errorf("conflicting provider options: only one of WithPrometheus, WithOTLP, or WithStdout can be used")
	}
	if r.serviceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if r.serviceVersion == "" {
		return fmt.Errorf("service version cannot be empty")
	}
	if r.exportInterval <= 0 {
		return fmt.Errorf("export interval must be positive, got %v", r.exportInterval)
	}
	if r.provider == OTLPProvider && r.otlpEndpoint == "" {
		r.logger.Warn("OTLP endpoint not specified, using default", "default", defaultOTLPEndpoint)
		r.otlpEndpoint = defaultOTLPEndpoint
	}
	r.serviceNameAttr = attribute.String("service.name", r.serviceName)
	r.serviceVersionAttr = attribute.String("service.version", r.serviceVersion)
	return nil
}

// initInstruments creates the metric instruments on the configured meter.
func (r *Recorder) initInstruments() error {
	var err error

	r.requestCount, err = r.meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Total number of HTTP requests handled"),
	)
	if err != nil {
		return fmt.Errorf("create request counter: %w", err)
	}

	r.requestDuration, err = r.meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("create duration histogram: %w", err)
	}

	r.activeRequests, err = r.meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return fmt.Errorf("create active requests counter: %w", err)
	}

	r.requestSize, err = r.meter.Int64Histogram(
		"http.server.request.size",
		metric.WithDescription("Size of HTTP request bodies"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	)
	if err != nil {
		return fmt.Errorf("create request size histogram: %w", err)
	}

	r.responseSize, err = r.meter.Int64Histogram(
		"http.server.response.size",
		metric.WithDescription("Size of HTTP response bodies"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(r.sizeBuckets...),
	)
	if err != nil {
		return fmt.Errorf("create response size histogram: %w", err)
	}

	r.errorCount, err = r.meter.Int64Counter(
		"http.server.errors",
		metric.WithDescription("Total number of HTTP error responses"),
	)
	if err != nil {
		return fmt.Errorf("create error counter: %w", err)
	}

	return nil
}

// requestState carries per-request metric data between the start and end
// hooks. It is the opaque state token handed back to the dispatcher.
type requestState struct {
	start time.Time
	attrs []attribute.KeyValue
}

// OnRequestStart begins metrics collection for a request. Excluded paths
// return a nil state, which removes the request from the remaining hooks.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if r.exclude.Excludes(req.URL.Path) {
		return ctx, nil
	}

	s := &requestState{start: time.Now()}
	s.attrs = make([]attribute.KeyValue, 3, 8)
	s.attrs[0] = r.serviceNameAttr
	s.attrs[1] = r.serviceVersionAttr
	s.attrs[2] = attribute.String("http.method", req.Method)

	// Increment and decrement must use the same attribute set, or the
	// in-flight series never returns to zero.
	r.activeRequests.Add(ctx, 1, metric.WithAttributes(s.attrs...))

	if req.ContentLength > 0 {
		r.requestSize.Record(ctx, req.ContentLength, metric.WithAttributes(s.attrs...))
	}

	return ctx, s
}

// WrapResponseWriter returns w unchanged. The dispatcher's own writer
// already exposes status and size through [router.ResponseInfo].
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	return w
}

// OnRequestEnd completes metrics collection for a request. routePattern is
// the matched route template, which keeps label cardinality bounded.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string) {
	s, ok := state.(*requestState)
	if !ok {
		return
	}

	duration := time.Since(s.start).Seconds()

	r.activeRequests.Add(ctx, -1, metric.WithAttributes(s.attrs...))

	var status int
	var size int64
	if info, ok := writer.(router.ResponseInfo); ok {
		status = info.StatusCode()
		size = info.Size()
	}

	attrs := append(s.attrs,
		attribute.String("http.route", routePattern),
		attribute.Int("http.status_code", status),
		attribute.String("http.status_class", statusClass(status)),
	)

	r.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	r.requestDuration.Record(ctx, duration, metric.WithAttributes(attrs...))
	if status >= 400 {
		r.errorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if size > 0 {
		r.responseSize.Record(ctx, size, metric.WithAttributes(attrs...))
	}
}

// statusClass returns the HTTP status class (2xx, 3xx, 4xx, 5xx).
func statusClass(statusCode int) string {
	switch statusCode / 100 {
	case 2:
		return "2xx"
	case 3:
		return "3xx"
	case 4:
		return "4xx"
	case 5:
		return "5xx"
	default:
		return "unknown"
	}
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
// It errors unless the Recorder was configured with [WithPrometheus]. The
// caller mounts it wherever scrapes should land; the package never starts
// a server of its own.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.prometheusHandler == nil {
		return nil, fmt.Errorf("prometheus handler not available: recorder uses provider %q", r.provider)
	}
	return r.prometheusHandler, nil
}

// Shutdown flushes pending metrics and shuts down the meter provider.
// Custom providers supplied via [WithMeterProvider] are left to their
// owner. Shutdown is idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.shuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if r.customMeterProvider {
		return nil
	}
	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}
	if err := mp.ForceFlush(ctx); err != nil {
		r.logger.Warn("metrics flush failed during shutdown", "error", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	return nil
}

// ForceFlush immediately exports pending metric data. Useful for push-based
// providers before a deployment or checkpoint; a no-op for Prometheus,
// which is collected on scrape.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.shuttingDown.Load() {
		return nil
	}
	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}
	return nil
}

// ServiceName returns the configured service name.
func (r *Recorder) ServiceName() string { return r.serviceName }

// ServiceVersion returns the configured service version.
func (r *Recorder) ServiceVersion() string { return r.serviceVersion }
