package main

import (
	"fmt"
	"net/http"
)

// shared is the middleware chain every request passes through.
func (app *application) shared(next http.Handler) http.Handler {
	return app.recoverPanic(app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
		commonContext(app.timeout(next))))))
}

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	session := func(next http.Handler) http.Handler {
		return app.shared(noCache(app.sessionManager.LoadAndSave(next)))
	}

	mux.Handle("POST /calculate", session(http.HandlerFunc(app.calculatePOST)))
	mux.Handle("POST /reset", session(http.HandlerFunc(app.resetPOST)))

	mux.Handle("GET /plates", session(http.HandlerFunc(app.platesGET)))

	mux.Handle("GET /settings", session(http.HandlerFunc(app.settingsGET)))
	mux.Handle("POST /settings/bar", session(http.HandlerFunc(app.settingsBarPOST)))
	mux.Handle("POST /settings/plates/{weight}/toggle", session(http.HandlerFunc(app.settingsPlateTogglePOST)))
	mux.Handle("POST /settings/plates/{weight}/quantity", session(http.HandlerFunc(app.settingsPlateQuantityPOST)))

	mux.Handle("GET /history", session(http.HandlerFunc(app.historyGET)))
	mux.Handle("GET /history/export.xlsx", session(http.HandlerFunc(app.historyExportGET)))
	mux.Handle("POST /history/clear", session(http.HandlerFunc(app.historyClearPOST)))
	mux.Handle("POST /history/{id}/load", session(http.HandlerFunc(app.historyLoadPOST)))

	mux.Handle("GET /timer", session(http.HandlerFunc(app.timerGET)))
	mux.Handle("GET /schemes/{id}", session(http.HandlerFunc(app.schemeGET)))

	mux.Handle("GET /api/healthy", app.shared(http.HandlerFunc(app.healthy)))
	mux.Handle("POST /api/csp", app.shared(http.HandlerFunc(app.cspViolation)))

	mux.Handle("GET /{$}", session(http.HandlerFunc(app.home)))

	// File server with custom 404 handling
	fileServerHandler, err := app.fileServerHandler()
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
