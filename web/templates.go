package web

import (
	"embed"
	"html/template"
	"io/fs"
	"sync"
	"time"
)

//go:embed *.html app.css
var content embed.FS

var (
	tmpl *template.Template
	once sync.Once
)

var funcs = template.FuncMap{
	"has": func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006")
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006 15:04")
	},
}

// Templates returns the parsed HTML templates, embedded at build time.
// layout.html pulls the page body from the "content" template defined by
// dashboard.html.
func Templates() *template.Template {
	once.Do(func() {
		tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(content, "*.html"))
	})
	return tmpl
}

// StaticFS exposes embedded static assets such as CSS.
func StaticFS() fs.FS {
	return content
}
