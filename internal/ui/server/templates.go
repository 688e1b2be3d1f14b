package server

import (
	"fmt"
	"html/template"
	"io/fs"
)

// loadTemplates parses the page templates from fsys. It returns a map keyed
// by logical page name ("home", "sessions"); each entry executes "base".
func loadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	pages := map[string]string{
		"home":     "home.tmpl",
		"sessions": "sessions.tmpl",
	}
	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		tmpl, err := template.New(name).ParseFS(fsys, "base.tmpl", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
