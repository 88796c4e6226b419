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

// Package metrics records per-request HTTP metrics through OpenTelemetry.
//
// The package ships a [Recorder] that plugs into the router's request
// lifecycle and records request counts, durations, sizes, and in-flight
// requests, labelled by method, route pattern, and status class. Because
// routes are labelled by pattern ("/users/:id") rather than raw path,
// metric cardinality stays bounded no matter what clients send.
//
// Three exporters are built in: Prometheus (pull-based, served by
// [Recorder.Handler]), OTLP over HTTP, and stdout for development. A custom
// meter provider can be supplied instead with [WithMeterProvider]; the
// global OpenTelemetry meter provider is never touched, so several
// Recorders can coexist in one process.
//
// Typical wiring:
//
//	rec := metrics.MustNew(
//	    metrics.WithServiceName("orders-api"),
//	    metrics.WithPrometheus(),
//	    metrics.WithExcludePaths("/healthz"),
//	)
//	defer rec.Shutdown(context.Background())
//
//	r := router.MustNew(router.WithObservability(rec))
//	scrape, _ := rec.Handler()
//	r.GET("/metrics", func(c *router.Context) error {
//	    scrape.ServeHTTP(c.Response, c.Request)
//	    return nil
//	})
package metrics
