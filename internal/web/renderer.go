// Package web renders the HTML pages of the blog and holds the helpers the
// page handlers share.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutName = "base"

// Renderer keeps one template set per page, each parsed together with the
// layout and the partials. It implements gin's render.HTMLRender.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page under templates/.
func NewRenderer() (*Renderer, error) {
	shared := []string{"templates/base.html", "templates/partials/*.html"}

	pages, err := fs.Glob(templateFS, "templates/*/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		if strings.HasPrefix(page, "templates/partials/") {
			continue
		}
		t, err := template.New(path.Base(page)).Funcs(Funcs()).ParseFS(templateFS, append(shared, page)...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		name := strings.TrimPrefix(page, "templates/")
		r.pages[name] = t
	}
	return r, nil
}

// Instance returns the render for the page called name, e.g. "blog/index.html".
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = template.Must(template.New("missing").Parse(`template {{.}} not found`))
		return render.HTML{Template: t, Name: "missing", Data: name}
	}
	return render.HTML{Template: t, Name: layoutName, Data: data}
}

// Has reports whether a page exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Static serves the embedded assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
