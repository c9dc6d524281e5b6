package main

import (
	"net/http"
	"strings"

	"github.com/myrjola/liftcalc/internal/calculator"
	"github.com/myrjola/liftcalc/internal/progression"
)

type homeTemplateData struct {
	BaseTemplateData
	Inputs  calculator.Inputs
	Schemes []progression.Scheme
	// Calculated is set once the form has been submitted. Result can still be empty for an invalid weight.
	Calculated bool
	Result     calculator.Result
	// MaxEffort marks a work-up to a heavy single on a main lift.
	MaxEffort bool
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in, result, err := app.currentResult(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Inputs:           in,
		Schemes:          app.calculator.Schemes(),
		Calculated:       app.calculated(ctx),
		Result:           result,
		MaxEffort:        result.Mode == calculator.ModeOneRepMax && progression.IsMaxEffort(in.Exercise, len(result.Sets)),
	}
	data.Flash = app.popFlash(ctx)

	app.render(w, r, http.StatusOK, "home", data)
}

// inputsFromForm reads the calculator form. Values are stored as typed and only interpreted when calculating.
func inputsFromForm(r *http.Request) calculator.Inputs {
	return calculator.Inputs{
		Exercise:      strings.TrimSpace(r.PostForm.Get("exercise")),
		Mode:          calculator.ParseMode(r.PostForm.Get("mode")),
		TargetWeight:  r.PostForm.Get("target_weight"),
		UniformWeight: r.PostForm.Get("uniform_weight"),
		Sets:          r.PostForm.Get("sets"),
		Reps:          r.PostForm.Get("reps"),
		SchemeID:      r.PostForm.Get("scheme"),
		SmallPlates:   r.PostForm.Get("small_plates") == "on",
	}
}

func (app *application) calculatePOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, err)
		return
	}

	in := inputsFromForm(r)
	app.saveInputs(ctx, in)
	app.setCalculated(ctx)

	result, err := app.calculator.Calculate(ctx, in)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if _, err = app.calculator.Record(ctx, result); err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/")
}

func (app *application) resetPOST(w http.ResponseWriter, r *http.Request) {
	app.clearInputs(r.Context())
	redirect(w, r, "/")
}
