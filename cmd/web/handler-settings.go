package main

import (
	"net/http"

	"github.com/myrjola/liftcalc/internal/calculator"
	"github.com/myrjola/liftcalc/internal/errors"
	"github.com/myrjola/liftcalc/internal/plates"
	"github.com/myrjola/liftcalc/internal/weight"
)

type plateRow struct {
	Weight   float64
	Selected bool
	Quantity plates.Quantity
	Style    plates.Style
}

type settingsTemplateData struct {
	BaseTemplateData
	BarWeight  float64
	BarWeights []float64
	Plates     []plateRow
	Enabled    []float64
}

func (app *application) settingsGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := app.calculator.Settings(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	rows := make([]plateRow, 0, len(plates.AllDenominations))
	for _, d := range plates.AllDenominations {
		rows = append(rows, plateRow{
			Weight:   d,
			Selected: settings.Inventory.Selected(d),
			Quantity: settings.Inventory.Quantity(d),
			Style:    plates.StyleOf(d),
		})
	}

	data := settingsTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		BarWeight:        settings.BarWeight,
		BarWeights:       plates.BarWeights,
		Plates:           rows,
		Enabled:          settings.Inventory.Enabled(),
	}
	data.Flash = app.popFlash(ctx)
	app.render(w, r, http.StatusOK, "settings", data)
}

func (app *application) settingsBarPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, err)
		return
	}

	_, err := app.calculator.SetBarWeight(ctx, weight.Parse(r.PostForm.Get("bar_weight")))
	switch {
	case errors.Is(err, calculator.ErrInvalidBarWeight):
		app.putFlash(ctx, "Pick one of the listed bars.")
	case err != nil:
		app.serverError(w, r, err)
		return
	}
	redirect(w, r, "/settings")
}

func (app *application) settingsPlateTogglePOST(w http.ResponseWriter, r *http.Request) {
	d, ok := app.parsePlateParam(w, r)
	if !ok {
		return
	}
	if _, err := app.calculator.TogglePlate(r.Context(), d); err != nil {
		app.serverError(w, r, err)
		return
	}
	redirect(w, r, "/settings")
}

// settingsPlateQuantityPOST applies one of the quantity controls of a plate.
func (app *application) settingsPlateQuantityPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, ok := app.parsePlateParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, err)
		return
	}

	var err error
	switch r.PostForm.Get("action") {
	case "inc":
		_, err = app.calculator.AdjustPlateQuantity(ctx, d, 1)
	case "dec":
		_, err = app.calculator.AdjustPlateQuantity(ctx, d, -1)
	case "unlimited":
		_, err = app.calculator.SetPlateUnlimited(ctx, d)
	case "toggle-unlimited":
		_, err = app.calculator.TogglePlateUnlimited(ctx, d)
	case "set":
		_, err = app.calculator.SetPlateQuantity(ctx, d, plates.Limited(weight.ParseCount(r.PostForm.Get("pairs"), 0)))
	default:
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	redirect(w, r, "/settings")
}
