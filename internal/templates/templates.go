// Package templates embeds and renders the HTML views.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aaronsmenu/menu-web/internal/format"
)

//go:embed *.tmpl
var files embed.FS

// Renderer executes the parsed view set.
type Renderer struct {
	tmpl *template.Template
}

// New parses every embedded template.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		"price":       format.Price,
		"description": format.Description,
		"typeClass":   format.TypeClass,
		"typeLabel":   format.TypeLabel,
	}
	t, err := template.New("_root").Funcs(funcMap).ParseFS(files, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("templates: parse: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Must wraps New and panics on error.
func Must() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named template into w with status. Output is buffered
// so a failing template yields a clean 500 instead of a truncated page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("templates: execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
