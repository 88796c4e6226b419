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
	"fmt"
	"maps"
	"sort"
	"strings"
)

// edge is a literal child keyed by its segment string. Children are kept in a
// slice and scanned linearly: segment fan-out is small in practice and the
// scan avoids map hashing on the hot path.
type edge struct {
	label string
	node  *node
}

// capture is the single named-capture child a node may own. The name is the
// text after ':' in the registered segment and becomes the parameter key
// bound during matching.
type capture struct {
	name string
	node *node
}

// node is one path-segment position in the route tree.
//
// A node holds handlers keyed by HTTP method, literal children keyed by
// segment, and at most one capture child. The capture child is shared by
// every capture registration at this position; registering a second capture
// with a different name panics (see tree.insert).
//
// Thread safety: nodes are mutated only during the configuration phase.
// After the owning Router freezes, the tree is immutable and safe for
// concurrent reads without locking.
type node struct {
	handlers map[string]HandlerFunc // HTTP method → handler
	pattern  string                 // registered template terminating here
	edges    []edge                 // literal children, registration order
	capture  *capture               // capture child, if any
}

// findChild returns the literal child for segment, or nil.
func (n *node) findChild(segment string) *node {
	for i := range n.edges {
		if n.edges[i].label == segment {
			return n.edges[i].node
		}
	}
	return nil
}

// findOrCreateChild returns the literal child for segment, creating it if
// needed.
func (n *node) findOrCreateChild(segment string) *node {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &node{}
	n.edges = append(n.edges, edge{label: segment, node: child})
	return child
}

// setHandler stores handler for method at this node, overwriting any prior
// registration for the same method. The stored pattern is refreshed so
// diagnostics and recorders see the latest registration.
func (n *node) setHandler(method, pattern string, handler HandlerFunc) {
	if n.handlers == nil {
		n.handlers = make(map[string]HandlerFunc, 2)
	}
	n.handlers[method] = handler
	n.pattern = pattern
}

// tree is the routing structure: a rooted prefix tree keyed by path segments.
// Each Router owns exactly one tree; composition (merge, nest) always builds
// fresh nodes in the destination, so two Routers never share node instances.
type tree struct {
	root *node
}

func newTree() *tree {
	return &tree{root: &node{}}
}

// splitPath tokenizes a path on '/', dropping only the leading empty segment.
// "/a/b" → [a b], "/a/" → [a ""], "/" → [""]. The trailing empty segment is a
// real segment, so /a and /a/ are distinct routes.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	return strings.Split(path, "/")
}

// insert registers handler for method at path. Segments beginning with ':'
// are capture tokens; the first capture registered at a position fixes its
// name, and a later capture with a different name at the same position panics
// rather than being silently absorbed.
//
// Duplicate registration of the same method and path is last-write-wins.
func (t *tree) insert(method, path string, handler HandlerFunc) {
	current := t.root
	for _, segment := range splitPath(path) {
		name, isCapture := strings.CutPrefix(segment, ":")
		if !isCapture {
			current = current.findOrCreateChild(segment)
			continue
		}
		if name == "" {
			panic(fmt.Sprintf("router: capture segment in %q has no name", path))
		}
		if current.capture == nil {
			current.capture = &capture{name: name, node: &node{}}
		} else if current.capture.name != name {
			panic(fmt.Sprintf("router: capture conflict in %q: position already bound as :%s, cannot rebind as :%s",
				path, current.capture.name, name))
		}
		current = current.capture.node
	}
	current.setHandler(method, path, handler)
}

// find resolves method and path to a handler, binding captured segments into
// c. At every depth an exact literal child wins; the capture child is taken
// only when no literal child matches the segment. The walk is greedy: a
// branch once taken is never reconsidered, so a literal branch that dead-ends
// deeper does not fall back to its capture sibling. Misses by path and by
// method are indistinguishable.
func (t *tree) find(method, path string, c *Context) (HandlerFunc, bool) {
	current := t.root
	for _, segment := range splitPath(path) {
		if child := current.findChild(segment); child != nil {
			current = child
			continue
		}
		if current.capture != nil {
			c.addParam(current.capture.name, segment)
			current = current.capture.node
			continue
		}
		return nil, false
	}
	handler, ok := current.handlers[method]
	if !ok {
		return nil, false
	}
	c.route = current.pattern
	return handler, true
}

// routeEntry is one (method, path, handler) triple recovered from the tree.
// The path is rebuilt from tree structure, regenerating ':name' tokens from
// stored capture names.
type routeEntry struct {
	method  string
	path    string
	handler HandlerFunc
}

// flatten walks the tree and rebuilds every registered route. Entries follow
// tree order: literal children in registration order, capture child last,
// methods sorted for determinism.
func (t *tree) flatten() []routeEntry {
	var entries []routeEntry
	flattenNode(t.root, nil, &entries)
	return entries
}

func flattenNode(n *node, segments []string, entries *[]routeEntry) {
	if len(n.handlers) > 0 {
		path := "/" + strings.Join(segments, "/")
		methods := make([]string, 0, len(n.handlers))
		for method := range n.handlers {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		for _, method := range methods {
			*entries = append(*entries, routeEntry{method: method, path: path, handler: n.handlers[method]})
		}
	}
	for _, e := range n.edges {
		flattenNode(e.node, appendSegment(segments, e.label), entries)
	}
	if n.capture != nil {
		flattenNode(n.capture.node, appendSegment(segments, ":"+n.capture.name), entries)
	}
}

// appendSegment grows the walk stack without aliasing sibling walks.
func appendSegment(segments []string, segment string) []string {
	return append(segments[:len(segments):len(segments)], segment)
}

// merge recursively unions src into t, creating fresh nodes in t. Handlers
// from src overwrite destination handlers for the same method and position.
// When both trees hold a capture child at one position, the destination's
// name is kept and the source subtree is grafted beneath it; patterns at
// merged terminals are rebuilt with the destination's capture names.
func (t *tree) merge(src *tree) {
	mergeNode(t.root, src.root, nil)
}

func mergeNode(dst, src *node, segments []string) {
	if len(src.handlers) > 0 {
		if dst.handlers == nil {
			dst.handlers = make(map[string]HandlerFunc, len(src.handlers))
		}
		maps.Copy(dst.handlers, src.handlers)
		dst.pattern = "/" + strings.Join(segments, "/")
	}
	for _, e := range src.edges {
		mergeNode(dst.findOrCreateChild(e.label), e.node, appendSegment(segments, e.label))
	}
	if src.capture != nil {
		if dst.capture == nil {
			dst.capture = &capture{name: src.capture.name, node: &node{}}
		}
		mergeNode(dst.capture.node, src.capture.node, appendSegment(segments, ":"+dst.capture.name))
	}
}

// nest reparents every route of src under prefix: src is flattened, each
// rebuilt path is prefixed and inserted into a scratch tree, and the scratch
// tree is merged into t. src is left untouched and remains independently
// usable.
func (t *tree) nest(prefix string, src *tree) {
	scratch := newTree()
	for _, entry := range src.flatten() {
		scratch.insert(entry.method, prefix+entry.path, entry.handler)
	}
	t.merge(scratch)
}

// normalizePrefix validates and canonicalizes a nesting prefix: it must begin
// with '/', and trailing slashes are trimmed so the joined paths keep exactly
// one separator. "/" collapses to the empty prefix.
func normalizePrefix(prefix string) string {
	if !strings.HasPrefix(prefix, "/") {
		panic(fmt.Sprintf("router: nest prefix %q must begin with '/'", prefix))
	}
	return strings.TrimRight(prefix, "/")
}

// hasCapture reports whether any segment of the rebuilt path is a capture
// token. Captureless routes are eligible for the static index.
func hasCapture(path string) bool {
	for _, segment := range splitPath(path) {
		if strings.HasPrefix(segment, ":") {
			return true
		}
	}
	return false
}
