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

import "sync"

// globalContextPool recycles Contexts across requests. One pool serves every
// Router in the process; reset clears all per-request and per-router state
// before reuse.
var globalContextPool = sync.Pool{
	New: func() any {
		return &Context{}
	},
}

// getContextFromGlobalPool retrieves a Context, panicking on pool corruption
// rather than letting a bare type-assertion panic surface without context.
func getContextFromGlobalPool() *Context {
	c, ok := globalContextPool.Get().(*Context)
	if !ok {
		panic("router: pool corruption - globalContextPool returned non-Context type")
	}
	return c
}

// releaseGlobalContext resets a Context and returns it to the pool. The
// single release path keeps cleanup auditable: every field added to Context
// gets cleared in exactly one place, reset.
func releaseGlobalContext(c *Context) {
	c.reset()
	globalContextPool.Put(c)
}
