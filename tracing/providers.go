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

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"treeline.dev/router/internal/otlputil"
)

// initProvider initializes the exporter selected by configuration.
func (r *Recorder) initProvider() error {
	if r.customTracerProvider {
		if r.tracerProvider == nil {
			return fmt.Errorf("custom tracer provider is nil")
		}
		r.tracer = r.tracerProvider.Tracer(tracerName)
		return nil
	}

	switch r.provider {
	case NoopProvider:
		return r.initNoop()
	case StdoutProvider:
		return r.initStdout()
	case OTLPProvider:
		return r.initOTLPGRPC()
	case OTLPHTTPProvider:
		return r.initOTLPHTTP()
	default:
		return fmt.Errorf("unsupported tracing provider: %s", r.provider)
	}
}

// initNoop builds a provider with no exporter. Spans exist for context
// propagation and are dropped on end.
func (r *Recorder) initNoop() error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(r.newResource()),
		sdktrace.WithSampler(r.newSampler()),
	)
	r.adoptProvider(tp)
	return nil
}

// initStdout builds a provider pretty-printing spans to stdout.
func (r *Recorder) initStdout() error {
	exporter, err := stdouttrace.New(
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return fmt.Errorf("create stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r.newResource()),
		sdktrace.WithSampler(r.newSampler()),
	)
	r.adoptProvider(tp)
	return nil
}

// initOTLPGRPC builds a provider exporting over OTLP gRPC. The endpoint is
// host:port; an "http://" scheme, if present, disables TLS.
func (r *Recorder) initOTLPGRPC() error {
	var opts []otlptracegrpc.Option

	if r.otlpEndpoint != "" {
		endpoint, insecure := otlputil.SplitEndpoint(r.otlpEndpoint)
		opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
	}

	exporter, err := otlptracegrpc.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("create OTLP gRPC exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r.newResource()),
		sdktrace.WithSampler(r.newSampler()),
	)
	r.adoptProvider(tp)
	return nil
}

// initOTLPHTTP builds a provider exporting over OTLP HTTP.
func (r *Recorder) initOTLPHTTP() error {
	var opts []otlptracehttp.Option

	if r.otlpEndpoint != "" {
		endpoint, insecure := otlputil.SplitEndpoint(r.otlpEndpoint)
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	}

	exporter, err := otlptracehttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("create OTLP HTTP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r.newResource()),
		sdktrace.WithSampler(r.newSampler()),
	)
	r.adoptProvider(tp)
	return nil
}

func (r *Recorder) adoptProvider(tp *sdktrace.TracerProvider) {
	r.sdkProvider = tp
	r.tracerProvider = tp
	r.tracer = tp.Tracer(tracerName)
}

func (r *Recorder) newResource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(r.serviceName),
		semconv.ServiceVersion(r.serviceVersion),
	)
}

// newSampler honors the configured head-sampling rate while always
// following a sampled remote parent.
func (r *Recorder) newSampler() sdktrace.Sampler {
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(r.sampleRate))
}
