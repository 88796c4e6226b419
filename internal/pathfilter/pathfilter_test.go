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

package pathfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExactPaths(t *testing.T) {
	t.Parallel()

	f := New()
	f.AddPaths("/healthz", "/metrics")

	assert.True(t, f.Excludes("/healthz"))
	assert.True(t, f.Excludes("/metrics"))
	assert.False(t, f.Excludes("/healthz/deep"))
	assert.False(t, f.Excludes("/users"))
}

func TestPrefixes(t *testing.T) {
	t.Parallel()

	f := New()
	f.AddPrefixes("/debug/", "/internal/")

	assert.True(t, f.Excludes("/debug/pprof"))
	assert.True(t, f.Excludes("/internal/state"))
	assert.False(t, f.Excludes("/debug"))
	assert.False(t, f.Excludes("/users"))
}

func TestNilFilterExcludesNothing(t *testing.T) {
	t.Parallel()

	var f *Filter
	assert.False(t, f.Excludes("/healthz"))
}

func TestEmptyFilterExcludesNothing(t *testing.T) {
	t.Parallel()

	f := New()
	assert.False(t, f.Excludes("/"))
	assert.False(t, f.Excludes(""))
}
