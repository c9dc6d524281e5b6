package main

import (
	"net/http"

	"github.com/myrjola/liftcalc/internal/plates"
)

type platesTemplateData struct {
	BaseTemplateData
	// Weight is the total as typed.
	Weight      string
	Total       float64
	SmallPlates bool
	BarWeight   float64
	Breakdown   plates.Breakdown
	// Submitted is false on the first visit when there is nothing to show yet.
	Submitted bool
}

// platesGET is the standalone plate calculator for a single total weight.
func (app *application) platesGET(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	submitted := query.Has("weight")
	// Small plates are on until the lifter submits the form without them.
	smallPlates := !submitted || query.Get("small") == "on"

	total, breakdown, settings, err := app.calculator.PlateLoad(r.Context(), query.Get("weight"), smallPlates)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := platesTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Weight:           query.Get("weight"),
		Total:            total,
		SmallPlates:      smallPlates,
		BarWeight:        settings.BarWeight,
		Breakdown:        breakdown,
		Submitted:        submitted && total > 0,
	}
	app.render(w, r, http.StatusOK, "plates", data)
}
