package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

//go:embed layout.html partials pages
var files embed.FS

const layout = "layout.html"

// Renderer pairs every page with the shared layout and partials so each page
// can define its own "title" and "content" blocks.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"contains": func(ids map[uint]bool, id uint) bool {
		return ids[id]
	},
}

func New() (*Renderer, error) {
	base, err := template.New(layout).Funcs(funcs).ParseFS(files, layout, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: map[string]*template.Template{}}
	err = fs.WalkDir(files, "pages", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".html") {
			return err
		}
		t, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := t.ParseFS(files, path); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		r.pages[strings.TrimPrefix(path, "pages/")] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Instance implements gin's render.HTMLRender. An unknown page renders as an error.
func (r *Renderer) Instance(name string, data interface{}) render.Render {
	t, ok := r.pages[name]
	if !ok {
		return missingPage(name)
	}
	return render.HTML{
		Template: t,
		Name:     layout,
		Data:     data,
	}
}

type missingPage string

func (p missingPage) Render(w http.ResponseWriter) error {
	p.WriteContentType(w)
	return fmt.Errorf("template %q is not defined", string(p))
}

func (missingPage) WriteContentType(w http.ResponseWriter) {
	if header := w.Header(); len(header["Content-Type"]) == 0 {
		header["Content-Type"] = []string{"text/html; charset=utf-8"}
	}
}
