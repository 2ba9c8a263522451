package main

import (
	"net/http"

	"github.com/myrjola/specter/internal/models"
)

type homeTemplateData struct {
	BaseTemplateData
	Cases []models.Case
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	cases, err := app.cases.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Cases:            cases,
	}

	// htmx polls the case archive, everyone else gets the full page.
	h := app.htmx.NewHandler(w, r)
	if h.IsHxRequest() {
		app.renderPartial(w, r, "home", "case-list", data)
		return
	}

	app.render(w, r, http.StatusOK, "home", data)
}
