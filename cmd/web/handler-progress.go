package main

import (
	"net/http"
	"time"

	"github.com/myrjola/specter/internal/contexthelpers"
	"github.com/myrjola/specter/internal/models"
)

type progressResponse struct {
	StartedAt     time.Time           `json:"startedAt"`
	CompletedAt   *time.Time          `json:"completedAt"`
	BestResult    models.TheoryResult `json:"bestResult"`
	TotalAttempts int                 `json:"totalAttempts"`
	Submissions   []models.Submission `json:"submissions"`
}

func (app *application) getProgress(w http.ResponseWriter, r *http.Request) {
	summary, err := app.engine.Progress(r.Context(), contexthelpers.AuthenticatedUserID(r.Context()), r.PathValue("slug"))
	if err != nil {
		app.engineError(w, r, err)
		return
	}

	// No record means the user has not interacted with the case yet.
	if summary == nil {
		app.writeJSON(w, http.StatusOK, map[string]any{"progress": nil})
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]any{"progress": progressResponse{
		StartedAt:     summary.StartedAt,
		CompletedAt:   summary.CompletedAt,
		BestResult:    summary.BestResult,
		TotalAttempts: summary.TotalAttempts,
		Submissions:   summary.Submissions,
	}})
}
