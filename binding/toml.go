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
	"github.com/BurntSushi/toml"
)

// tomlCodec decodes application/toml bodies with github.com/BurntSushi/toml.
type tomlCodec struct{}

// TOML returns the codec for application/toml bodies.
func TOML() Codec {
	return tomlCodec{}
}

func (tomlCodec) MediaType() string {
	return "application/toml"
}

func (tomlCodec) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}
