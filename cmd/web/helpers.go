package main

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/liftcalc/internal/errors"
	"github.com/myrjola/liftcalc/internal/plates"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.render(w, r, http.StatusInternalServerError, "error", newBaseTemplateData(r))
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusNotFound, "not-found", newBaseTemplateData(r))
}

// redirect detects if the request is originating from a fetch API call or a top-level navigation and points the user
// to the correct URL.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("Sec-Fetch-Dest") == "empty" {
		w.Header().Set("Content-Location", path)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, path, http.StatusSeeOther)
}

// parsePlateParam parses the "weight" path parameter naming a plate from the catalog.
// On failure, sends HTTP 404 response automatically.
func (app *application) parsePlateParam(w http.ResponseWriter, r *http.Request) (float64, bool) {
	d, err := strconv.ParseFloat(r.PathValue("weight"), 64)
	if err != nil || !plates.InCatalog(d) {
		app.notFound(w, r)
		return 0, false
	}
	return d, true
}
