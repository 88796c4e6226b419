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

	"gopkg.in/yaml.v3"
)

// yamlCodec decodes application/x-yaml bodies with gopkg.in/yaml.v3.
type yamlCodec struct {
	strict bool
}

// YAMLOption configures the YAML codec.
type YAMLOption func(*yamlCodec)

// WithStrictYAML makes the codec reject documents with fields absent from
// the target struct.
func WithStrictYAML() YAMLOption {
	return func(c *yamlCodec) {
		c.strict = true
	}
}

// YAML returns the codec for application/x-yaml bodies.
func YAML(opts ...YAMLOption) Codec {
	c := yamlCodec{}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (yamlCodec) MediaType() string {
	return "application/x-yaml"
}

func (c yamlCodec) Unmarshal(data []byte, v any) error {
	if !c.strict {
		return yaml.Unmarshal(data, v)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(v)
}
