package http

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/portfolio-dev/portfolio/internal/icon"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages renders each page inside the shared layout. Every page gets its
// own template set so they can all define "content".
type pages map[string]*template.Template

var funcs = template.FuncMap{
	"icon": func(tag string) template.HTML { return icon.Resolve(tag).SVG() },
	"join": func(s []string) string { return strings.Join(s, ", ") },
	"move": func(path, id string, up, down bool) moveButtons {
		return moveButtons{Path: path + "/" + id, CanUp: up, CanDown: down}
	},
}

type moveButtons struct {
	Path    string
	CanUp   bool
	CanDown bool
}

func loadPages(names ...string) (pages, error) {
	out := make(pages, len(names))
	for _, name := range names {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func (p pages) Instance(name string, data any) render.Render {
	return render.HTML{Template: p[name], Name: "layout", Data: data}
}
