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

// Package otlputil holds helpers shared by the OTLP exporters.
package otlputil

import "strings"

// SplitEndpoint reduces an endpoint URL to the host:port form the OTLP
// clients want, reporting whether the scheme asked for plaintext. A path
// suffix is dropped; an endpoint without a scheme passes through with TLS
// assumed.
func SplitEndpoint(endpoint string) (string, bool) {
	insecure := false
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint = rest
		insecure = true
	} else if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = rest
	}
	if idx := strings.Index(endpoint, "/"); idx != -1 {
		endpoint = endpoint[:idx]
	}
	return endpoint, insecure
}
