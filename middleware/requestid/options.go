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

package requestid

// WithHeader sets the header carrying the request ID.
// Default: "X-Request-ID".
//
// Example:
//
//	requestid.New(requestid.WithHeader("X-Correlation-ID"))
func WithHeader(headerName string) Option {
	return func(cfg *config) {
		cfg.headerName = headerName
	}
}

// WithULID generates ULIDs instead of UUID v7. ULIDs are time-ordered and
// case-insensitive, with a compact 26-character representation:
//
//	ULID:    01ARZ3NDEKTSV4RRFFQ69G5FAV  (26 characters)
//	UUID v7: 018f3e9a-1b2c-7def-8000-abcdef123456  (36 characters)
func WithULID() Option {
	return func(cfg *config) {
		cfg.generator = generateULID
	}
}

// WithGenerator sets a custom ID generator. The function must return a
// unique string on every call.
//
// Example:
//
//	requestid.New(requestid.WithGenerator(func() string {
//	    return fmt.Sprintf("req-%d", seq.Add(1))
//	}))
func WithGenerator(generator func() string) Option {
	return func(cfg *config) {
		cfg.generator = generator
	}
}

// WithAllowClientID controls whether IDs supplied by the client are
// accepted. When false, every request gets a server-generated ID regardless
// of what the client sent. Default: true.
func WithAllowClientID(allow bool) Option {
	return func(cfg *config) {
		cfg.allowClientID = allow
	}
}
