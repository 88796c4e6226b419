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
	"html/template"
	"io"
)

// Renderer turns a named template and data into a response body. It is an
// external collaborator: the Router never parses templates itself, it only
// buffers Render output and ships it (see Context.Render). Implementations
// must be safe for concurrent use.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// TemplateRenderer adapts a parsed html/template set to the Renderer
// interface.
//
// Example:
//
//	tmpl := template.Must(template.ParseGlob("views/*.html"))
//	r := router.MustNew(router.WithRenderer(router.NewTemplateRenderer(tmpl)))
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer wraps a parsed template set. Panics on nil: a Router
// configured with a renderer that can never render is a programming error.
func NewTemplateRenderer(templates *template.Template) *TemplateRenderer {
	if templates == nil {
		panic("router: nil template set")
	}
	return &TemplateRenderer{templates: templates}
}

// Render executes the named template into w.
func (tr *TemplateRenderer) Render(w io.Writer, name string, data any) error {
	return tr.templates.ExecuteTemplate(w, name, data)
}
