package main

import (
	"net/http"

	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/repositories"
)

func (app *application) listCases(w http.ResponseWriter, r *http.Request) {
	cases, err := app.cases.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]any{"cases": cases})
}

func (app *application) getCase(w http.ResponseWriter, r *http.Request) {
	c, err := app.cases.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			app.writeJSONError(w, http.StatusNotFound, "case not found")
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]any{"case": c})
}
