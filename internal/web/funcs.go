package web

import (
	"html/template"
	"time"

	"github.com/bluelog/core/internal/pkg/forms"
	"github.com/bluelog/core/internal/pkg/markdown"
	"github.com/dustin/go-humanize"
)

// Funcs returns the template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"render":  markdown.Render,
		"excerpt": markdown.Excerpt,
		"fromNow": humanize.Time,
		"date": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"datetime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"iso": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
		"fieldError": fieldError,
		"add":        func(a, b int) int { return a + b },
		"deref": func(p *uint) uint {
			if p == nil {
				return 0
			}
			return *p
		},
	}
}

func fieldError(errs any, field string) string {
	e, ok := errs.(forms.Errors)
	if !ok {
		return ""
	}
	return e.First(field)
}
