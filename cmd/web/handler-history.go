package main

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/myrjola/liftcalc/internal/calculator"
	"github.com/myrjola/liftcalc/internal/errors"
)

type historyRow struct {
	calculator.HistoryEntry
	SchemeName string
}

type historyTemplateData struct {
	BaseTemplateData
	Entries []historyRow
}

func (app *application) historyGET(w http.ResponseWriter, r *http.Request) {
	entries, err := app.calculator.History(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	rows := make([]historyRow, len(entries))
	for i, e := range entries {
		rows[i] = historyRow{HistoryEntry: e, SchemeName: ""}
		if scheme, ok := app.calculator.Scheme(e.SchemeID); ok {
			rows[i].SchemeName = scheme.AlgorithmName
		}
	}

	data := historyTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Entries:          rows,
	}
	app.render(w, r, http.StatusOK, "history", data)
}

// historyLoadPOST puts a past calculation back into the calculator form.
func (app *application) historyLoadPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		app.notFound(w, r)
		return
	}

	entry, err := app.calculator.HistoryEntry(ctx, id)
	if errors.Is(err, calculator.ErrNotFound) {
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.saveInputs(ctx, entry.Inputs())
	app.setCalculated(ctx)
	redirect(w, r, "/")
}

func (app *application) historyClearPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.calculator.ClearHistory(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	redirect(w, r, "/history")
}

// historyExportGET downloads the history as a spreadsheet.
func (app *application) historyExportGET(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := app.calculator.ExportHistoryXLSX(r.Context(), &buf); err != nil {
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="liftcalc-history.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
