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

// Package tracing opens one OpenTelemetry server span per routed request.
//
// The [Recorder] plugs into the router's request lifecycle. It extracts W3C
// trace context from inbound headers, starts a span of kind server, and
// renames the span to "METHOD /route/pattern" once the route is known, so
// span names stay bounded no matter what paths clients probe. Responses
// with status 500 and above mark the span as errored; client errors do not.
//
// Exporters: stdout (development), OTLP over gRPC, and OTLP over HTTP. An
// externally managed tracer provider can be supplied with
// [WithTracerProvider]. Without a provider option the Recorder runs in noop
// mode: spans are created for propagation but never exported.
//
//	rec := tracing.MustNew(
//	    tracing.WithServiceName("orders-api"),
//	    tracing.WithOTLP("otel-collector:4317"),
//	)
//	defer rec.Shutdown(context.Background())
//
//	r := router.MustNew(router.WithObservability(rec))
package tracing
