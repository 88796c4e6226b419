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
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
)

// Static enumerates the injected filesystem and registers one GET route (and
// the matching HEAD route) per regular file, at prefix joined with the file's
// path inside fsys. The filesystem is an explicit collaborator: there is no
// default asset directory, and nothing outside the enumeration is ever
// served, so unknown paths fall through to the normal 404 policy.
//
// Content types derive from the file extension via mime.TypeByExtension,
// falling back to application/octet-stream. Files are opened from fsys per
// request; registration holds no file handles. There are no directory
// listings, no index redirects, and no caching headers.
//
// Static returns the enumeration error, if any. It panics when prefix does
// not begin with '/', when a file path contains a segment beginning with ':'
// (it would register a capture), or after the Router has frozen.
//
// Example:
//
//	//go:embed assets
//	var assets embed.FS
//
//	sub, _ := fs.Sub(assets, "assets")
//	if err := r.Static("/assets", sub); err != nil {
//	    log.Fatal(err)
//	}
func (r *Router) Static(prefix string, fsys fs.FS) error {
	r.mustBeMutable(fmt.Sprintf("register static routes under %q", prefix))
	if fsys == nil {
		panic("router: Static with nil filesystem")
	}
	prefix = normalizePrefix(prefix)

	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		for _, segment := range strings.Split(p, "/") {
			if strings.HasPrefix(segment, ":") {
				panic(fmt.Sprintf("router: static file %q: segment %q would register a capture", p, segment))
			}
		}
		route := prefix + "/" + p
		contentType := mime.TypeByExtension(path.Ext(p))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		r.GET(route, serveFile(fsys, p, contentType, false))
		r.HEAD(route, serveFile(fsys, p, contentType, true))
		return nil
	})
}

// serveFile builds the per-file handler. The file is opened fresh on every
// request; a file that was enumerated at registration but cannot be opened
// now is a server fault and goes to the central guard.
func serveFile(fsys fs.FS, name, contentType string, headOnly bool) HandlerFunc {
	return func(c *Context) error {
		f, err := fsys.Open(name)
		if err != nil {
			return fmt.Errorf("opening static file %q: %w", name, err)
		}
		defer f.Close()

		c.Response.Header().Set("Content-Type", contentType)
		if info, err := f.Stat(); err == nil {
			c.Response.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
		}
		c.writeStatus(http.StatusOK)
		if headOnly {
			return nil
		}
		if _, err := io.Copy(c.Response, f); err != nil {
			return fmt.Errorf("serving static file %q: %w", name, err)
		}
		return nil
	}
}
