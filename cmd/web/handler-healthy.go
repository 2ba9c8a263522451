package main

import "net/http"

// healthy reports readiness. The database and content seed are initialized
// before the listener starts, so a 200 here means the API can take requests.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
