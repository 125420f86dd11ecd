package formapi

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talkincode/productform/internal/domain"
	"github.com/talkincode/productform/internal/form"
	"github.com/talkincode/productform/internal/imagehost"
)

//go:embed templates/*.html
var templateFS embed.FS

type imageView struct {
	URL    string
	Alt    string
	Width  int
	Height int
}

type templateRenderer struct {
	templates *template.Template
}

func newRenderer(allowlist *imagehost.Allowlist) (*templateRenderer, error) {
	funcs := template.FuncMap{
		"iconGlyph":    domain.IconGlyph,
		"imageAllowed": allowlist.Allowed,
		"dayKey": func(field string, day int) string {
			return form.DayKey(day, form.DayField(field))
		},
		"imageView": func(url, alt string, width, height int) imageView {
			return imageView{URL: url, Alt: alt, Width: width, Height: height}
		},
	}
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse page templates")
	}
	return &templateRenderer{templates: t}, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
