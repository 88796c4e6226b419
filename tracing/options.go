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
	"log/slog"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Recorder during construction.
type Option func(*Recorder)

// WithServiceName sets the service.name resource attribute on exported
// spans.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute on
// exported spans.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithStdout selects the stdout exporter with pretty-printed spans.
// Development and testing only.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
	}
}

// WithOTLP selects the OTLP gRPC exporter pushing to endpoint, usually
// host:port. An "http://" scheme disables transport security.
//
//	rec := tracing.MustNew(tracing.WithOTLP("otel-collector:4317"))
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.providerSetCount++
		r.otlpEndpoint = endpoint
	}
}

// WithOTLPHTTP selects the OTLP HTTP exporter pushing to endpoint. An
// "http://" scheme disables TLS; a path suffix is ignored.
func WithOTLPHTTP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPHTTPProvider
		r.providerSetCount++
		r.otlpEndpoint = endpoint
	}
}

// WithTracerProvider supplies an externally managed tracer provider.
// Provider options and [WithSampleRate] are ignored, and Shutdown leaves
// the provider to its owner.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(r *Recorder) {
		r.tracerProvider = provider
		r.customTracerProvider = true
	}
}

// WithSampleRate sets the head-sampling rate between 0.0 (trace nothing)
// and 1.0 (trace everything, the default). Requests carrying a sampled
// remote parent are always traced regardless of rate.
func WithSampleRate(rate float64) Option {
	return func(r *Recorder) {
		r.sampleRate = rate
	}
}

// WithPropagator replaces the default W3C trace context propagator used to
// extract inbound trace headers.
func WithPropagator(propagator propagation.TextMapPropagator) Option {
	return func(r *Recorder) {
		if propagator != nil {
			r.propagator = propagator
		}
	}
}

// WithExcludePaths excludes exact request paths from tracing.
func WithExcludePaths(paths ...string) Option {
	return func(r *Recorder) {
		r.exclude.AddPaths(paths...)
	}
}

// WithExcludePrefixes excludes whole path hierarchies, such as "/debug/",
// from tracing.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(r *Recorder) {
		r.exclude.AddPrefixes(prefixes...)
	}
}

// WithLogger sets the logger for internal operational messages. Messages
// are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}
