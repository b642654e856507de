// Package render turns page models into HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/afeedhshaji/gemini-dashboard/internal/catalog"
	"github.com/afeedhshaji/gemini-dashboard/pkg/llm"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is everything the dashboard view needs. It carries no markup.
type Page struct {
	Models   []catalog.Model
	Selected string
	Prompt   string
	// Result is nil until a prompt has been submitted.
	Result  *llm.Result
	DocsURL string
}

// Success reports whether a submission produced text.
func (p Page) Success() bool { return p.Result != nil && !p.Result.Failed() }

// Failure reports whether a submission produced an error.
func (p Page) Failure() bool { return p.Result != nil && p.Result.Failed() }

// Renderer writes a page.
type Renderer interface {
	Render(w io.Writer, p Page) error
}

// HTML renders the dashboard with html/template.
type HTML struct {
	tmpl *template.Template
}

// NewHTML parses the embedded dashboard template.
func NewHTML() (*HTML, error) {
	t, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &HTML{tmpl: t}, nil
}

// Render executes into a buffer first so a template error never leaves a
// half-written page on w.
func (h *HTML) Render(w io.Writer, p Page) error {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", p); err != nil {
		return fmt.Errorf("render: execute: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
