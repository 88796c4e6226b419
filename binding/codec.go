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

import "errors"

// Codec parses one structured-body format. Implementations must be safe for
// concurrent use; the codecs in this package are stateless values.
type Codec interface {
	// MediaType returns the canonical media type this codec accepts,
	// e.g. "application/json". The router matches request Content-Type
	// headers by prefix against this value.
	MediaType() string

	// Unmarshal parses data into v, which must be a non-nil pointer.
	Unmarshal(data []byte, v any) error
}

// ErrNotProtoMessage indicates that the Proto codec was asked to decode into
// a value that does not implement proto.Message.
var ErrNotProtoMessage = errors.New("binding: target does not implement proto.Message")

// Decode parses data with the given codec into a value of type T.
//
// Example:
//
//	user, err := binding.Decode[User](binding.JSON(), body)
func Decode[T any](c Codec, data []byte) (T, error) {
	var out T
	if err := c.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
