package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, app.authenticate, commonContext)
	protected := session.Append(app.requireAuthentication)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("GET /api/healthy", alice.New().ThenFunc(app.healthy))

	mux.Handle("POST /api/session", session.ThenFunc(app.createSession))
	mux.Handle("POST /api/profile", protected.ThenFunc(app.updateProfile))

	mux.Handle("GET /api/cases", session.ThenFunc(app.listCases))
	mux.Handle("GET /api/cases/{slug}", session.ThenFunc(app.getCase))

	mux.Handle("GET /api/cases/{slug}/evidence", protected.ThenFunc(app.listEvidence))
	mux.Handle("POST /api/cases/{slug}/evidence/{evidenceID}/mark", protected.ThenFunc(app.markEvidence))
	mux.Handle("GET /api/cases/{slug}/hints", protected.ThenFunc(app.getHints))
	mux.Handle("POST /api/cases/{slug}/hints", protected.ThenFunc(app.revealHint))
	mux.Handle("POST /api/cases/{slug}/submit-theory", protected.ThenFunc(app.submitTheory))
	mux.Handle("GET /api/cases/{slug}/progress", protected.ThenFunc(app.getProgress))

	return app.recoverPanic(app.logRequest(secureHeaders(mux)))
}
