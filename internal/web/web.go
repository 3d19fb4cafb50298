// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var baseFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Parse parses the named files from templates/. funcs are installed on top
// of the package's base functions.
func Parse(funcs template.FuncMap, names ...string) (*template.Template, error) {
	patterns := make([]string, len(names))
	for i, n := range names {
		patterns[i] = "templates/" + n
	}
	return template.New(names[0]).Funcs(baseFuncs).Funcs(funcs).ParseFS(templateFS, patterns...)
}

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
