package main

import (
	"net/http"

	"github.com/myrjola/specter/internal/contexthelpers"
	"github.com/myrjola/specter/internal/investigation"
)

type hintStateResponse struct {
	HintsRevealed int      `json:"hintsRevealed"`
	TotalHints    int      `json:"totalHints"`
	Hints         []string `json:"hints"`
	NewHint       string   `json:"newHint,omitempty"`
	HasMoreHints  bool     `json:"hasMoreHints"`
}

func newHintStateResponse(state *investigation.HintState) hintStateResponse {
	hints := state.Hints
	if hints == nil {
		hints = []string{}
	}
	return hintStateResponse{
		HintsRevealed: state.HintsRevealed,
		TotalHints:    state.TotalHints,
		Hints:         hints,
		NewHint:       state.NewHint,
		HasMoreHints:  state.HasMoreHints,
	}
}

func (app *application) getHints(w http.ResponseWriter, r *http.Request) {
	state, err := app.engine.Hints(r.Context(), contexthelpers.AuthenticatedUserID(r.Context()), r.PathValue("slug"))
	if err != nil {
		app.engineError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, newHintStateResponse(state))
}

func (app *application) revealHint(w http.ResponseWriter, r *http.Request) {
	state, err := app.engine.RevealNextHint(r.Context(), contexthelpers.AuthenticatedUserID(r.Context()), r.PathValue("slug"))
	if err != nil {
		app.engineError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, newHintStateResponse(state))
}
