package changelog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
)

//go:embed templates/header.txt
var defaultTemplate string

// DefaultTemplate returns the embedded entry template.
func DefaultTemplate() string {
	return defaultTemplate
}

// Renderer turns a Record into changelog text.
type Renderer interface {
	Render(r Record) (string, error)
}

// TemplateRenderer renders records with text/template. Templates see the
// slots messages, added, modified and deleted; referencing any other key
// is an error.
type TemplateRenderer struct {
	tmpl *template.Template
}

var _ Renderer = (*TemplateRenderer)(nil)

// NewTemplateRenderer loads the template at path, or the embedded default
// when path is empty.
func NewTemplateRenderer(path string) (*TemplateRenderer, error) {
	if path == "" {
		return ParseTemplate("header.txt", defaultTemplate)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	return ParseTemplate(path, string(content))
}

// ParseTemplate compiles template text.
func ParseTemplate(name, text string) (*TemplateRenderer, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render executes the template and trims surrounding whitespace.
func (t *TemplateRenderer) Render(r Record) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, r.Slots()); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
