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

package accesslog

import (
	"log/slog"
	"time"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the destination logger. A nil logger is ignored and the
// default stays in place.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSlowThreshold marks requests slower than d with a slow=true field and
// raises them to WARN. Zero (the default) disables slow-request detection.
func WithSlowThreshold(d time.Duration) Option {
	return func(r *Recorder) {
		r.slowThreshold = d
	}
}

// WithErrorsOnly suppresses records for responses below 400 unless the
// request was slow. Useful on high-traffic services where routine access
// records drown out the signal.
func WithErrorsOnly() Option {
	return func(r *Recorder) {
		r.errorsOnly = true
	}
}

// WithExcludePaths skips logging for the given exact request paths, such as
// health probes.
func WithExcludePaths(paths ...string) Option {
	return func(r *Recorder) {
		r.exclude.AddPaths(paths...)
	}
}

// WithExcludePrefixes skips logging for any request path starting with one
// of the given prefixes.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(r *Recorder) {
		r.exclude.AddPrefixes(prefixes...)
	}
}
