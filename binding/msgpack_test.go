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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type msgpackEvent struct {
	Name  string   `msgpack:"name"`
	Count int      `msgpack:"count"`
	Tags  []string `msgpack:"tags"`
}

func TestMsgPack_MediaType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/msgpack", MsgPack().MediaType())
}

func TestMsgPack_BasicDecoding(t *testing.T) {
	t.Parallel()

	body, err := msgpack.Marshal(msgpackEvent{
		Name:  "deploy",
		Count: 3,
		Tags:  []string{"prod", "eu-west"},
	})
	require.NoError(t, err)

	event, err := Decode[msgpackEvent](MsgPack(), body)
	require.NoError(t, err)
	assert.Equal(t, "deploy", event.Name)
	assert.Equal(t, 3, event.Count)
	assert.Equal(t, []string{"prod", "eu-west"}, event.Tags)
}

func TestMsgPack_InvalidData(t *testing.T) {
	t.Parallel()

	_, err := Decode[msgpackEvent](MsgPack(), []byte{0xc1, 0xff, 0x00})
	require.Error(t, err)
}
