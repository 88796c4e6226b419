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

package binding

import (
	"bytes"
	"encoding/json"
)

// jsonCodec decodes application/json bodies with encoding/json.
type jsonCodec struct {
	disallowUnknown bool
}

// JSONOption configures the JSON codec.
type JSONOption func(*jsonCodec)

// WithDisallowUnknownFields makes the codec reject bodies that carry fields
// absent from the target struct. Useful for catching client typos and API
// drift at the boundary.
func WithDisallowUnknownFields() JSONOption {
	return func(c *jsonCodec) {
		c.disallowUnknown = true
	}
}

// JSON returns the codec for application/json bodies.
//
// Example:
//
//	user, err := binding.Decode[User](binding.JSON(), body)
//
//	// Reject unknown fields:
//	strict := binding.JSON(binding.WithDisallowUnknownFields())
func JSON(opts ...JSONOption) Codec {
	c := jsonCodec{}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (jsonCodec) MediaType() string {
	return "application/json"
}

func (c jsonCodec) Unmarshal(data []byte, v any) error {
	if !c.disallowUnknown {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
