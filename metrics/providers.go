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

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"treeline.dev/router/internal/otlputil"
)

// defaultOTLPEndpoint is used when WithOTLP is given an empty endpoint.
const defaultOTLPEndpoint = "http://localhost:4318"

// initProvider initializes the exporter selected by configuration.
func (r *Recorder) initProvider() error {
	if r.customMeterProvider {
		if r.meterProvider == nil {
			return fmt.Errorf("custom meter provider is nil")
		}
		r.meter = r.meterProvider.Meter(meterName)
		return r.initInstruments()
	}

	switch r.provider {
	case PrometheusProvider:
		return r.initPrometheus()
	case OTLPProvider:
		return r.initOTLP()
	case StdoutProvider:
		return r.initStdout()
	default:
		return fmt.Errorf("unsupported metrics provider: %s", r.provider)
	}
}

// initPrometheus builds a pull-based provider around a private registry so
// two Recorders in one process never fight over collector registration.
func (r *Recorder) initPrometheus() error {
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return fmt.Errorf("create Prometheus exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	r.prometheusHandler = promhttp.HandlerFor(
		r.prometheusRegistry,
		promhttp.HandlerOpts{},
	)

	r.meter = r.meterProvider.Meter(meterName)
	return r.initInstruments()
}

// initOTLP builds a push-based provider exporting over OTLP HTTP.
func (r *Recorder) initOTLP() error {
	var opts []otlpmetrichttp.Option

	if r.otlpEndpoint != "" {
		endpoint, insecure := otlputil.SplitEndpoint(r.otlpEndpoint)
		opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("create OTLP exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(r.exportInterval),
		)),
	)

	r.meter = r.meterProvider.Meter(meterName)
	return r.initInstruments()
}

// initStdout builds a push-based provider printing to stdout.
func (r *Recorder) initStdout() error {
	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("create stdout exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(r.exportInterval),
		)),
	)

	r.meter = r.meterProvider.Meter(meterName)
	return r.initInstruments()
}
