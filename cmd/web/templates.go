package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/myrjola/specter/internal/contexthelpers"
	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/ui"
)

type BaseTemplateData struct {
	Authenticated bool
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		Authenticated: contexthelpers.IsAuthenticated(r.Context()),
	}
}

// pageTemplate parses the base layout together with the given page template
// from the embedded assets.
func (app *application) pageTemplate(r *http.Request, pageName string) (*template.Template, error) {
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>",
		contexthelpers.CSRFToken(r.Context()))
	t, err := template.New(pageName).Funcs(template.FuncMap{
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // the token is not user-provided.
		},
	}).ParseFS(ui.Files, "templates/base.gohtml", fmt.Sprintf("templates/%s.gohtml", pageName))
	if err != nil {
		return nil, errors.Wrap(err, "parse page template", slog.String("template", pageName))
	}
	return t, nil
}

// render writes a full page using the base layout.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, pageName string, data any) {
	app.renderTemplate(w, r, status, pageName, "base", data)
}

// renderPartial writes a single named template without the base layout, used
// for htmx swaps.
func (app *application) renderPartial(w http.ResponseWriter, r *http.Request, pageName string, name string, data any) {
	app.renderTemplate(w, r, http.StatusOK, pageName, name, data)
}

func (app *application) renderTemplate(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	pageName string,
	name string,
	data any,
) {
	t, err := app.pageTemplate(r, pageName)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	buf := new(bytes.Buffer)
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", name)))
		return
	}

	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
