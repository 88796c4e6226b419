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

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRoundTrip(t *testing.T) {
	t.Parallel()
	c := getContextFromGlobalPool()
	require.NotNil(t, c)

	c.Request = httptest.NewRequest("GET", "/x?q=1", nil)
	c.Response = httptest.NewRecorder()
	c.addParam("id", "42")
	c.setQuery("q=1")
	c.route = "/x/:id"
	c.logger = noopLogger

	releaseGlobalContext(c)

	// The released Context must come back fully cleared, whichever caller
	// draws it next.
	fresh := getContextFromGlobalPool()
	defer releaseGlobalContext(fresh)
	assert.Nil(t, fresh.Request)
	assert.Nil(t, fresh.Response)
	assert.Empty(t, fresh.Param("id"))
	assert.Zero(t, fresh.paramCount)
	assert.Empty(t, fresh.route)
	assert.Nil(t, fresh.query)
	assert.Nil(t, fresh.logger)
	assert.Nil(t, fresh.renderer)
}

func TestResetClearsOverflowParams(t *testing.T) {
	t.Parallel()
	c := &Context{}
	for i := 0; i < maxArrayParams+2; i++ {
		c.addParam(string(rune('a'+i)), "v")
	}
	require.Len(t, c.Params, 2)

	c.reset()
	assert.Zero(t, c.paramCount)
	assert.Empty(t, c.Params, "overflow map is cleared, not reallocated")
	assert.Empty(t, c.Param("a"))
}
