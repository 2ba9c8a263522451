package main

import (
	"net/http"

	"github.com/myrjola/specter/internal/contexthelpers"
)

func (app *application) listEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := contexthelpers.AuthenticatedUserID(ctx)
	slug := r.PathValue("slug")

	evidence, err := app.engine.Evidence(ctx, userID, slug)
	if err != nil {
		app.engineError(w, r, err)
		return
	}
	notes, err := app.engine.EvidenceNotes(ctx, userID, slug)
	if err != nil {
		app.engineError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]any{
		"evidence": evidence,
		"notes":    notes,
	})
}

type markEvidenceRequest struct {
	Reviewed bool   `json:"reviewed"`
	Note     string `json:"note"`
}

func (app *application) markEvidence(w http.ResponseWriter, r *http.Request) {
	var req markEvidenceRequest
	if !app.decodeJSONBody(w, r, &req) {
		return
	}

	mark, err := app.engine.MarkEvidence(
		r.Context(),
		contexthelpers.AuthenticatedUserID(r.Context()),
		r.PathValue("slug"),
		r.PathValue("evidenceID"),
		req.Reviewed,
		req.Note,
	)
	if err != nil {
		app.engineError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]any{
		"evidenceId": mark.EvidenceID,
		"reviewed":   mark.Reviewed,
		"note":       mark.Note,
	})
}
