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
	"github.com/vmihailenco/msgpack/v5"
)

// msgpackCodec decodes application/msgpack bodies with
// github.com/vmihailenco/msgpack/v5.
type msgpackCodec struct{}

// MsgPack returns the codec for application/msgpack bodies.
func MsgPack() Codec {
	return msgpackCodec{}
}

func (msgpackCodec) MediaType() string {
	return "application/msgpack"
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
