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

package router

import (
	"context"
	"net/http"
)

// notFoundRoutePattern is the route pattern reported to recorders when no
// route matched. Recorders label by pattern, not raw path, so misses must
// collapse to one value rather than exploding cardinality.
const notFoundRoutePattern = "_not_found"

// ObservabilityRecorder provides lifecycle hooks around every request.
// Implementations typically record metrics, open trace spans, or write
// access logs; the metrics, tracing, and accesslog packages in this module
// each ship one.
//
// Lifecycle:
//  1. The dispatcher calls OnRequestStart(ctx, req) before the middleware
//     pipeline runs. The returned context replaces the request context, so
//     enrichment (trace propagation, request-scoped values) reaches
//     middleware, handlers, and downstream calls. The returned state token
//     is opaque to the dispatcher; returning nil excludes the request from
//     the remaining hooks while keeping the context enrichment.
//  2. WrapResponseWriter is called only when state is non-nil. The wrapped
//     writer should implement ResponseInfo so the end hook can read the
//     final status and size.
//  3. OnRequestEnd is called after the response is complete, on hit, miss,
//     fault, and connection-abort paths alike, only when state is non-nil.
//     routePattern is the matched template ("/users/:id") or "_not_found".
//
// Thread safety: all methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any)
	WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter
	OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string)
}

// ResponseInfo is implemented by response writers that track response
// metadata. The dispatcher's own writer implements it, and recorder-wrapped
// writers should too, so OnRequestEnd can extract status and size without
// knowing the concrete type.
type ResponseInfo interface {
	StatusCode() int
	Size() int64
}

// MultiRecorder fans the lifecycle hooks out to several recorders in order.
// Start hooks chain their context enrichment left to right; writers are
// wrapped in reverse so the leftmost recorder observes the outermost writer.
func MultiRecorder(recorders ...ObservabilityRecorder) ObservabilityRecorder {
	return &multiRecorder{recorders: recorders}
}

type multiRecorder struct {
	recorders []ObservabilityRecorder
}

func (m *multiRecorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	states := make([]any, len(m.recorders))
	active := false
	for i, rec := range m.recorders {
		ctx, states[i] = rec.OnRequestStart(ctx, req)
		if states[i] != nil {
			active = true
		}
	}
	if !active {
		return ctx, nil
	}
	return ctx, states
}

func (m *multiRecorder) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	states, ok := state.([]any)
	if !ok {
		return w
	}
	for i := len(m.recorders) - 1; i >= 0; i-- {
		if states[i] != nil {
			w = m.recorders[i].WrapResponseWriter(w, states[i])
		}
	}
	return w
}

func (m *multiRecorder) OnRequestEnd(ctx context.Context, state any, writer http.ResponseWriter, routePattern string) {
	states, ok := state.([]any)
	if !ok {
		return
	}
	for i, rec := range m.recorders {
		if states[i] != nil {
			rec.OnRequestEnd(ctx, states[i], writer, routePattern)
		}
	}
}
