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

// Package binding provides the structured-body codecs consumed by the
// router's payload wrappers.
//
// A Codec pairs a media type with an Unmarshal function. The router's
// Body wrapper checks the request Content-Type against Codec.MediaType
// (prefix match, so parameters like "; charset=utf-8" pass) and hands the
// accumulated body bytes to Codec.Unmarshal.
//
// Five codecs ship with the package:
//
//	binding.JSON()     application/json         encoding/json
//	binding.YAML()     application/x-yaml       gopkg.in/yaml.v3
//	binding.TOML()     application/toml         github.com/BurntSushi/toml
//	binding.MsgPack()  application/msgpack      github.com/vmihailenco/msgpack/v5
//	binding.Proto()    application/x-protobuf   google.golang.org/protobuf
//
// Standalone use, outside the router:
//
//	user, err := binding.Decode[User](binding.JSON(), body)
//
// All codecs are stateless values, safe for concurrent use and for sharing
// across routes.
package binding
