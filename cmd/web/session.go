package main

import (
	"context"

	"github.com/myrjola/liftcalc/internal/calculator"
)

// Session keys of the calculator form. The form is kept per browser so that a page reload shows the last
// calculation.
const (
	sessionKeyExercise      = "calculator.exercise"
	sessionKeyMode          = "calculator.mode"
	sessionKeyTargetWeight  = "calculator.target_weight"
	sessionKeyUniformWeight = "calculator.uniform_weight"
	sessionKeySets          = "calculator.sets"
	sessionKeyReps          = "calculator.reps"
	sessionKeySchemeID      = "calculator.scheme_id"
	sessionKeySmallPlates   = "calculator.small_plates"
	sessionKeyCalculated    = "calculator.calculated"
	sessionKeyFlash         = "flash"
)

// loadInputs returns the form stored in the session or the defaults for a first visit.
func (app *application) loadInputs(ctx context.Context) calculator.Inputs {
	if !app.sessionManager.Exists(ctx, sessionKeyMode) {
		return calculator.DefaultInputs()
	}
	return calculator.Inputs{
		Exercise:      app.sessionManager.GetString(ctx, sessionKeyExercise),
		Mode:          calculator.ParseMode(app.sessionManager.GetString(ctx, sessionKeyMode)),
		TargetWeight:  app.sessionManager.GetString(ctx, sessionKeyTargetWeight),
		UniformWeight: app.sessionManager.GetString(ctx, sessionKeyUniformWeight),
		Sets:          app.sessionManager.GetString(ctx, sessionKeySets),
		Reps:          app.sessionManager.GetString(ctx, sessionKeyReps),
		SchemeID:      app.sessionManager.GetString(ctx, sessionKeySchemeID),
		SmallPlates:   app.sessionManager.GetBool(ctx, sessionKeySmallPlates),
	}
}

func (app *application) saveInputs(ctx context.Context, in calculator.Inputs) {
	app.sessionManager.Put(ctx, sessionKeyExercise, in.Exercise)
	app.sessionManager.Put(ctx, sessionKeyMode, string(in.Mode))
	app.sessionManager.Put(ctx, sessionKeyTargetWeight, in.TargetWeight)
	app.sessionManager.Put(ctx, sessionKeyUniformWeight, in.UniformWeight)
	app.sessionManager.Put(ctx, sessionKeySets, in.Sets)
	app.sessionManager.Put(ctx, sessionKeyReps, in.Reps)
	app.sessionManager.Put(ctx, sessionKeySchemeID, in.SchemeID)
	app.sessionManager.Put(ctx, sessionKeySmallPlates, in.SmallPlates)
}

// clearInputs forgets the form and the last calculation.
func (app *application) clearInputs(ctx context.Context) {
	for _, key := range []string{
		sessionKeyExercise, sessionKeyMode, sessionKeyTargetWeight, sessionKeyUniformWeight, sessionKeySets, sessionKeyReps,
		sessionKeySchemeID, sessionKeySmallPlates, sessionKeyCalculated,
	} {
		app.sessionManager.Remove(ctx, key)
	}
}

// calculated reports whether the results of the stored form should be shown.
func (app *application) calculated(ctx context.Context) bool {
	return app.sessionManager.GetBool(ctx, sessionKeyCalculated)
}

func (app *application) setCalculated(ctx context.Context) {
	app.sessionManager.Put(ctx, sessionKeyCalculated, true)
}

func (app *application) putFlash(ctx context.Context, msg string) {
	app.sessionManager.Put(ctx, sessionKeyFlash, msg)
}

func (app *application) popFlash(ctx context.Context) string {
	return app.sessionManager.PopString(ctx, sessionKeyFlash)
}

// currentResult recalculates the stored form. The result is empty when nothing has been calculated yet.
func (app *application) currentResult(ctx context.Context) (calculator.Inputs, calculator.Result, error) {
	in := app.loadInputs(ctx)
	if !app.calculated(ctx) {
		return in, calculator.Result{}, nil
	}
	result, err := app.calculator.Calculate(ctx, in)
	if err != nil {
		return in, calculator.Result{}, err //nolint:wrapcheck // wrapped by the service.
	}
	return in, result, nil
}
