package main

import (
	"net/http"
	"strings"

	"github.com/myrjola/specter/internal/contexthelpers"
	"github.com/myrjola/specter/internal/models"
)

// createSession starts an anonymous investigator session. The user is
// identified by an opaque random handle stored in the session cookie, there
// are no credentials involved. Repeated calls on an authenticated session are
// no-ops.
func (app *application) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if contexthelpers.IsAuthenticated(ctx) {
		app.sessionCreated(w, r)
		return
	}

	user, err := models.NewUser()
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = app.users.Upsert(ctx, user); err != nil {
		app.serverError(w, r, err)
		return
	}

	// Renew the session token on privilege change to prevent session fixation.
	if err = app.sessionManager.RenewToken(ctx); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.sessionManager.Put(ctx, string(userIDSessionKey), user.ID)

	app.sessionCreated(w, r)
}

func (app *application) sessionCreated(w http.ResponseWriter, r *http.Request) {
	// Plain form posts from the home page navigate back to it.
	if strings.Contains(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	app.writeJSON(w, http.StatusCreated, map[string]bool{"authenticated": true})
}
