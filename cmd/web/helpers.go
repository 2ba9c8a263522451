package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/specter/internal/errors"
	"github.com/myrjola/specter/internal/investigation"
	"github.com/myrjola/specter/internal/repositories"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Debug(http.StatusText(status), "method", method, "uri", uri)
	http.Error(w, http.StatusText(status), status)
}

func (app *application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (app *application) writeJSONError(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, map[string]string{"error": message})
}

// engineError translates investigation sentinels into HTTP status codes.
// Unrecognized errors fall through to a 500.
func (app *application) engineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, investigation.ErrCaseNotFound):
		app.writeJSONError(w, http.StatusNotFound, "case not found")
	case errors.Is(err, investigation.ErrAccessDenied):
		app.writeJSONError(w, http.StatusForbidden, "this case requires clearance")
	case errors.Is(err, investigation.ErrTheoryTooShort):
		app.writeJSONError(w, http.StatusBadRequest, "theory must be at least 20 characters")
	case errors.Is(err, investigation.ErrUnknownEvidence):
		app.writeJSONError(w, http.StatusBadRequest, "unknown evidence")
	case errors.Is(err, investigation.ErrHintsExhausted):
		app.writeJSONError(w, http.StatusConflict, "no more hints available")
	case errors.Is(err, repositories.ErrConflict):
		app.writeJSONError(w, http.StatusServiceUnavailable, "please retry")
	default:
		app.serverError(w, r, err)
	}
}

// decodeJSONBody reads a small JSON request body into v.
func (app *application) decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		app.writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
