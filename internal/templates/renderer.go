// Package templates provides the html/template renderer for Echo.
package templates

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// TemplateRenderer wraps html/template for Echo
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// NewTemplateRenderer loads all templates from the specified directory.
// Each page under pages/ is parsed into its own clone of the shared layout
// set, so pages can define blocks with the same names without clobbering
// each other.
func NewTemplateRenderer(templatesDir string) (*TemplateRenderer, error) {
	templates := make(map[string]*template.Template)

	layoutPattern := filepath.Join(templatesDir, "layouts", "*.html")
	baseTmpl, err := template.New("base").ParseGlob(layoutPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layouts: %w", err)
	}

	pagePattern := filepath.Join(templatesDir, "pages", "*.html")
	pages, err := filepath.Glob(pagePattern)
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		pageName := filepath.Base(page)

		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base template for %s: %w", pageName, err)
		}

		pageTmpl, err = pageTmpl.ParseFiles(page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		templates[pageName] = pageTmpl
	}

	return &TemplateRenderer{
		templates: templates,
	}, nil
}

// Render renders a template with data
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, name, data)
}
