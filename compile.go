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

// indexEntry is one precomputed exact-match route.
type indexEntry struct {
	handler HandlerFunc
	pattern string
}

// indexKey builds the index lookup key. Methods are RFC tokens and cannot
// contain a space, so "METHOD path" is unambiguous.
func indexKey(method, path string) string {
	return method + " " + path
}

// buildIndex flattens the tree at freeze time and indexes every captureless
// route by exact method and path. The dispatcher consults the index before
// walking the tree; because literal children win over captures at every
// depth, an exact hit is always the same handler the walk would find.
func buildIndex(t *tree) map[string]indexEntry {
	entries := t.flatten()
	index := make(map[string]indexEntry, len(entries))
	for _, entry := range entries {
		if hasCapture(entry.path) {
			continue
		}
		index[indexKey(entry.method, entry.path)] = indexEntry{
			handler: entry.handler,
			pattern: entry.path,
		}
	}
	return index
}
