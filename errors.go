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

import "errors"

var (
	// ErrRendererNotSet indicates that Context.Render was called on a Router
	// configured without a Renderer.
	ErrRendererNotSet = errors.New("renderer not set")

	// ErrUnsupportedMediaType indicates that a payload route received a
	// Content-Type that does not begin with the expected media type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrBodyTooLarge indicates that a payload route's declared content
	// length exceeds the configured cap.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrMalformedBody indicates that a payload route's body could not be
	// parsed as the expected structured format.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrServerTimeoutInvalid indicates that a server timeout value must be
	// positive.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")

	// ErrResponseWriterNotHijacker indicates that the underlying
	// ResponseWriter does not implement http.Hijacker.
	ErrResponseWriterNotHijacker = errors.New("responseWriter does not implement http.Hijacker")
)
