package main

import (
	"net/http"

	"github.com/myrjola/specter/internal/contexthelpers"
	"github.com/myrjola/specter/internal/models"
)

type submitTheoryRequest struct {
	Theory string `json:"theory"`
}

type theoryOutcomeResponse struct {
	Result   models.TheoryResult `json:"result"`
	Feedback string              `json:"feedback"`
	// RevealedSolution is null for incorrect theories.
	RevealedSolution *string             `json:"revealedSolution"`
	Attempts         int                 `json:"attempts"`
	BestResult       models.TheoryResult `json:"bestResult"`
}

func (app *application) submitTheory(w http.ResponseWriter, r *http.Request) {
	var req submitTheoryRequest
	if !app.decodeJSONBody(w, r, &req) {
		return
	}

	outcome, err := app.engine.SubmitTheory(
		r.Context(),
		contexthelpers.AuthenticatedUserID(r.Context()),
		r.PathValue("slug"),
		req.Theory,
	)
	if err != nil {
		app.engineError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, theoryOutcomeResponse{
		Result:           outcome.Result,
		Feedback:         outcome.Feedback,
		RevealedSolution: outcome.RevealedSolution,
		Attempts:         outcome.Attempts,
		BestResult:       outcome.BestResult,
	})
}
