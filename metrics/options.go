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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option configures a Recorder during construction.
type Option func(*Recorder)

// WithServiceName sets the service.name attribute attached to every metric.
func WithServiceName(name string) Option {
	return func(r *Recorder) {
		r.serviceName = name
	}
}

// WithServiceVersion sets the service.version attribute attached to every
// metric.
func WithServiceVersion(version string) Option {
	return func(r *Recorder) {
		r.serviceVersion = version
	}
}

// WithPrometheus selects the Prometheus exporter. Metrics are registered in
// a private registry and served by [Recorder.Handler]; mount the handler on
// a route of your choosing. This is the default provider.
func WithPrometheus() Option {
	return func(r *Recorder) {
		r.provider = PrometheusProvider
		r.providerSetCount++
	}
}

// WithOTLP selects the OTLP HTTP exporter pushing to endpoint. An "http://"
// scheme disables TLS; a path suffix is ignored. An empty endpoint falls
// back to http://localhost:4318.
//
//	rec := metrics.MustNew(
//	    metrics.WithOTLP("http://otel-collector:4318"),
//	    metrics.WithExportInterval(15*time.Second),
//	)
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.providerSetCount++
		r.otlpEndpoint = endpoint
	}
}

// WithStdout selects the stdout exporter. Development and testing only.
func WithStdout() Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.providerSetCount++
	}
}

// WithMeterProvider supplies an externally managed meter provider. Provider
// options are ignored, [Recorder.Handler] is unavailable, and Shutdown
// leaves the provider to its owner.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customMeterProvider = true
	}
}

// WithExportInterval sets the export cadence for the push-based providers
// (OTLP and stdout). Prometheus ignores it; scrapes drive collection.
func WithExportInterval(interval time.Duration) Option {
	return func(r *Recorder) {
		r.exportInterval = interval
	}
}

// WithDurationBuckets sets histogram bucket boundaries, in seconds, for the
// request duration metric. Defaults to [DefaultDurationBuckets].
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.durationBuckets = buckets
	}
}

// WithSizeBuckets sets histogram bucket boundaries, in bytes, for the
// request and response size metrics. Defaults to [DefaultSizeBuckets].
func WithSizeBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		r.sizeBuckets = buckets
	}
}

// WithExcludePaths excludes exact request paths from metrics collection.
// Health and scrape endpoints are the usual candidates:
//
//	metrics.MustNew(metrics.WithExcludePaths("/healthz", "/metrics"))
func WithExcludePaths(paths ...string) Option {
	return func(r *Recorder) {
		r.exclude.AddPaths(paths...)
	}
}

// WithExcludePrefixes excludes whole path hierarchies, such as "/debug/",
// from metrics collection.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(r *Recorder) {
		r.exclude.AddPrefixes(prefixes...)
	}
}

// WithLogger sets the logger for internal operational messages, such as
// flush failures during shutdown. Messages are discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}
