// Package ui embeds the HTML templates and static assets served by the UI
// server. Both can be overridden from disk at runtime.
package ui

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Templates returns the embedded templates rooted at the templates directory.
func Templates() fs.FS {
	return mustSub(templateFiles, "templates")
}

// Static returns the embedded stylesheet and images.
func Static() fs.FS {
	return mustSub(staticFiles, "static")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
