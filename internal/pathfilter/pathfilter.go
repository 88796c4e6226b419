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

// Package pathfilter decides which request paths the observability
// recorders skip. Health checks and scrape endpoints are the usual
// exclusions; recording them adds noise without insight.
package pathfilter

import "strings"

// Filter matches request paths against exact entries and prefixes.
// The zero value and nil both exclude nothing. Filters are built during
// configuration and read-only afterwards, so lookups need no locking.
type Filter struct {
	paths    map[string]bool
	prefixes []string
}

// New returns an empty Filter.
func New() *Filter {
	return &Filter{paths: make(map[string]bool)}
}

// AddPaths registers exact paths to exclude.
func (f *Filter) AddPaths(paths ...string) {
	for _, p := range paths {
		f.paths[p] = true
	}
}

// AddPrefixes registers path prefixes to exclude.
func (f *Filter) AddPrefixes(prefixes ...string) {
	f.prefixes = append(f.prefixes, prefixes...)
}

// Excludes reports whether path should be skipped.
func (f *Filter) Excludes(path string) bool {
	if f == nil {
		return false
	}
	if f.paths[path] {
		return true
	}
	for _, prefix := range f.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
