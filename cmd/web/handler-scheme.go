package main

import (
	"net/http"

	"github.com/myrjola/liftcalc/internal/progression"
	"github.com/myrjola/liftcalc/internal/weight"
)

type schemeStepRow struct {
	SetNumber int
	// Percentage is empty for a step without one, which is lifted at 100%.
	Percentage string
	Notes      string
	// Weight is the set weight for the target in the calculator form, if any.
	Weight string
}

type schemeTemplateData struct {
	BaseTemplateData
	Scheme progression.Scheme
	Steps  []schemeStepRow
	Target string
}

// schemeGET describes a progression scheme with the weights it gives for the current target.
func (app *application) schemeGET(w http.ResponseWriter, r *http.Request) {
	scheme, ok := app.calculator.Scheme(r.PathValue("id"))
	if !ok {
		app.notFound(w, r)
		return
	}

	in := app.loadInputs(r.Context())
	target := weight.Parse(in.TargetWeight)
	results := progression.Compute(target, scheme, scheme.Len())

	steps := scheme.Steps()
	rows := make([]schemeStepRow, len(steps))
	for i, step := range steps {
		rows[i] = schemeStepRow{SetNumber: step.SetNumber, Percentage: "", Notes: step.Notes, Weight: ""}
		if !step.Malformed() {
			rows[i].Percentage = weight.Format(*step.Percentage) + "%"
		}
		if i < len(results) {
			rows[i].Weight = weight.Format(results[i].Weight)
		}
	}

	data := schemeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Scheme:           scheme,
		Steps:            rows,
		Target:           "",
	}
	if target > 0 {
		data.Target = weight.Format(target)
	}
	app.render(w, r, http.StatusOK, "scheme", data)
}
