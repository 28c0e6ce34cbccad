package view

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/ping-crm/dashboard/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page is the data every page template receives.
type Page struct {
	Title  string
	Active string
	User   *models.User
	Error  string
	Table  *Table
	Form   *Form
	// Data holds page specific values (login form input, confirmation target).
	Data map[string]any
}

// Templates parses the embedded page templates. Pages are addressed by file
// name, e.g. "list.html".
func Templates() (*template.Template, error) {
	tmpl, err := template.New("pages").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// MustTemplates is Templates for program start.
func MustTemplates() *template.Template {
	tmpl, err := Templates()
	if err != nil {
		panic(err)
	}
	return tmpl
}
