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

package tracing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"treeline.dev/router"
	"treeline.dev/router/internal/pathfilter"
)

// tracerName identifies this package's spans to the tracer provider.
const tracerName = "treeline.dev/router/tracing"

// Provider selects the exporter backing a Recorder.
type Provider string

const (
	// NoopProvider creates spans for context propagation but exports
	// nothing. This is the default.
	NoopProvider Provider = "noop"
	// StdoutProvider pretty-prints spans to stdout. Development only.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports spans to an OTLP collector over gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports spans to an OTLP collector over HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
)

// DefaultSampleRate samples every request.
const DefaultSampleRate = 1.0

// noopLogger discards internal operational messages unless WithLogger is set.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ router.ObservabilityRecorder = (*Recorder)(nil)

// Recorder opens one server span per request. It implements
// [router.ObservabilityRecorder]; register it with router.WithObservability.
// All methods are safe for concurrent use.
type Recorder struct {
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	propagator     propagation.TextMapPropagator
	logger         *slog.Logger

	exclude *pathfilter.Filter

	serviceName    string
	serviceVersion string
	otlpEndpoint   string
	sampleRate     float64

	provider             Provider
	providerSetCount     int
	customTracerProvider bool

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a [Recorder] with the given options and initializes the
// configured exporter. The global OpenTelemetry tracer provider is never
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
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	provider := string(r.provider)
	if r.customTracerProvider {
		provider = "custom"
	}
	r.logger.Debug("tracing initialized", "provider", provider, "service", r.serviceName)

	return r, nil
}

// MustNew is like [New] but panics when construction fails.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("tracing: %v", err))
	}
	return r
}

func newDefaultRecorder() *Recorder {
	return &Recorder{
		propagator:     propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
		logger:         noopLogger,
		exclude:        pathfilter.New(),
		serviceName:    "treeline-service",
		serviceVersion: "1.0.0",
		sampleRate:     DefaultSampleRate,
		provider:       NoopProvider,
	}
}

func (r *Recorder) validate() error {
	if r.providerSetCount > 1 {
		return fmt.Errorf("conflicting provider options: only one of WithStdout, WithOTLP, or WithOTLPHTTP can be used")
	}
	if r.serviceName == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if r.serviceVersion == "" {
		return fmt.Errorf("service version cannot be empty")
	}
	if r.sampleRate < 0.0 || r.sampleRate > 1.0 {
		return fmt.Errorf("sample rate must be between 0.0 and 1.0, got %g", r.sampleRate)
	}
	return nil
}

// requestState carries the open span between the start and end hooks.
type requestState struct {
	span   trace.Span
	method string
}

// OnRequestStart extracts inbound trace context and opens a server span.
// The span is provisionally named after the raw path and renamed to the
// route pattern once dispatch resolves it. Excluded paths return a nil
// state and skip tracing entirely.
func (r *Recorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	if r.exclude.Excludes(req.URL.Path) {
		return ctx, nil
	}

	ctx = r.propagator.Extract(ctx, propagation.HeaderCarrier(req.Header))

	ctx, span := r.tracer.Start(ctx, req.Method+" "+req.URL.Path,
		trace.WithSpanKind(trace.SpanKindServer),
	)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("http.host", req.Host),
			attribute.String("http.user_agent", req.UserAgent()),
		)
	}

	return ctx, &requestState{span: span, method: req.Method}
}

// WrapResponseWriter returns w unchanged. The dispatcher's own writer
// already exposes status and size through [router.ResponseInfo].
func (r *Recorder) WrapResponseWriter(w http.ResponseWriter, _ any) http.ResponseWriter {
	return w
}

// OnRequestEnd renames the span to the matched route pattern, records the
// final status, and ends the span. Server faults (status 500 and above)
// mark the span as errored; client errors are normal request outcomes and
// leave the span ok.
func (r *Recorder) OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string) {
	s, ok := state.(*requestState)
	if !ok {
		return
	}

	if s.span.IsRecording() {
		var status int
		if info, ok := writer.(router.ResponseInfo); ok {
			status = info.StatusCode()
		}

		s.span.SetName(s.method + " " + routePattern)
		s.span.SetAttributes(
			attribute.String("http.route", routePattern),
			attribute.Int("http.status_code", status),
		)
		if status >= 500 {
			s.span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		} else {
			s.span.SetStatus(codes.Ok, "")
		}
	}

	s.span.End()
}

// Shutdown flushes pending spans and shuts down the tracer provider.
// Custom providers supplied via [WithTracerProvider] are left to their
// owner. Shutdown is idempotent and returns the first error it hit.
func (r *Recorder) Shutdown(ctx context.Context) error {
	r.shutdownOnce.Do(func() {
		if r.customTracerProvider || r.sdkProvider == nil {
			return
		}
		if err := r.sdkProvider.Shutdown(ctx); err != nil {
			r.shutdownErr = fmt.Errorf("tracer provider shutdown: %w", err)
		}
	})
	return r.shutdownErr
}

// Propagator returns the configured text map propagator, for callers that
// need to inject the active trace context into outbound requests.
func (r *Recorder) Propagator() propagation.TextMapPropagator {
	return r.propagator
}

// ServiceName returns the configured service name.
func (r *Recorder) ServiceName() string { return r.serviceName }
