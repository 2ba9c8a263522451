package main

import (
	"net/http"

	"github.com/myrjola/specter/internal/contexthelpers"
)

type updateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// updateProfile lets an investigator pick a display name and opt in to
// milestone emails. Clearing the email opts out again.
func (app *application) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !app.decodeJSONBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	user, err := app.users.Get(ctx, contexthelpers.AuthenticatedUserID(ctx))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	user.Email = req.Email

	if err = app.users.Upsert(ctx, user); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, http.StatusOK, map[string]string{
		"displayName": user.DisplayName,
		"email":       user.Email,
	})
}
