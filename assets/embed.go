// Package assets embeds the files the server ships with: SQL migrations
// for the category cache and the HTML templates for the board.
package assets

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed sql/*.sql templates/*.html
var FS embed.FS

// Migrations returns the sql/ directory as its own filesystem root.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Templates parses every template under templates/ with funcs installed.
func Templates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(FS, "templates/*.html")
}
