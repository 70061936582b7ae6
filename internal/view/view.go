// Package view renders the embedded HTML templates. Every page shares the
// layout and partials; named partials double as AJAX snippets.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates
var files embed.FS

const (
	layoutTemplate  = "layout"
	contentTemplate = "content"
)

type Renderer struct {
	base  *template.Template
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".html")

		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(files, file); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = clone
	}

	return &Renderer{base: base, pages: pages}, nil
}

// Render writes a whole page, or only its content block when layout is false.
func (r *Renderer) Render(w io.Writer, page string, data *Page, layout bool) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	name := contentTemplate
	if layout {
		name = layoutTemplate
	}

	if err := t.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	return nil
}

// Snippet renders one shared partial to a string for the AJAX payload.
func (r *Renderer) Snippet(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.base.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render snippet %s: %w", name, err)
	}
	return buf.String(), nil
}
