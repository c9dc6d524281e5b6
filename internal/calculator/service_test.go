package calculator_test

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/myrjola/liftcalc/internal/calculator"
	"github.com/myrjola/liftcalc/internal/plates"
	"github.com/myrjola/liftcalc/internal/progression"
	"github.com/myrjola/liftcalc/internal/sqlite"
	"github.com/myrjola/liftcalc/internal/testhelpers"
)

func newService(t *testing.T) *calculator.Service {
	t.Helper()
	return newServiceWithSchemes(t, progression.Builtin())
}

func newServiceWithSchemes(t *testing.T, registry progression.Registry) *calculator.Service {
	t.Helper()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		if err = db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})
	return calculator.NewService(db, logger, registry, progression.NewCache(0))
}

func oneRepMax(target string) calculator.Inputs {
	in := calculator.DefaultInputs()
	in.TargetWeight = target
	return in
}

func uniform(weight, sets string) calculator.Inputs {
	in := calculator.DefaultInputs()
	in.Mode = calculator.ModeUniform
	in.UniformWeight = weight
	in.Sets = sets
	in.Reps = "5"
	return in
}

func TestService_Calculate(t *testing.T) {
	svc := newService(t)
	tests := []struct {
		name        string
		in          calculator.Inputs
		wantWeights []float64
		wantScheme  string
	}{
		{
			name:        "1rm standard",
			in:          oneRepMax("300"),
			wantWeights: []float64{180, 210, 235, 255, 275, 290, 300},
			wantScheme:  "standard",
		},
		{
			name: "1rm ignores the sets field",
			in: func() calculator.Inputs {
				in := oneRepMax("300")
				in.Sets = "3"
				return in
			}(),
			wantWeights: []float64{180, 210, 235, 255, 275, 290, 300},
			wantScheme:  "standard",
		},
		{
			name: "1rm unknown scheme falls back to standard",
			in: func() calculator.Inputs {
				in := oneRepMax("300")
				in.SchemeID = "nope"
				return in
			}(),
			wantWeights: []float64{180, 210, 235, 255, 275, 290, 300},
			wantScheme:  "standard",
		},
		{
			name: "1rm texas method uses the first seven steps",
			in: func() calculator.Inputs {
				in := oneRepMax("200")
				in.SchemeID = "texasMethod"
				return in
			}(),
			wantWeights: []float64{180, 180, 180, 180, 180, 160, 160},
			wantScheme:  "texasMethod",
		},
		{
			name:        "1rm still typing",
			in:          oneRepMax(""),
			wantWeights: []float64{},
			wantScheme:  "standard",
		},
		{
			name:        "uniform",
			in:          uniform("135", "5"),
			wantWeights: []float64{135, 135, 135, 135, 135},
		},
		{
			name:        "uniform defaults to four sets",
			in:          uniform("95", "abc"),
			wantWeights: []float64{95, 95, 95, 95},
		},
		{
			name:        "uniform invalid weight",
			in:          uniform("-5", "3"),
			wantWeights: []float64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Calculate(t.Context(), tt.in)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantWeights, got.Weights()); diff != "" {
				t.Errorf("weights mismatch (-want +got):\n%s", diff)
			}
			if got.Scheme.ID != tt.wantScheme {
				t.Errorf("scheme = %q, want %q", got.Scheme.ID, tt.wantScheme)
			}
			if got.BarWeight != plates.DefaultBarWeight {
				t.Errorf("bar weight = %v, want %v", got.BarWeight, plates.DefaultBarWeight)
			}
		})
	}
}

func TestService_Calculate_customSchemeWithNonFinitePercentage(t *testing.T) {
	custom, err := progression.Decode(strings.NewReader(`
schemes:
  - id: broken
    steps:
      - percentage: .nan
      - percentage: 50
`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	registry, err := progression.Builtin().With(custom...)
	if err != nil {
		t.Fatalf("With() error = %v", err)
	}
	svc := newServiceWithSchemes(t, registry)

	in := oneRepMax("300")
	in.SchemeID = "broken"
	result, err := svc.Calculate(t.Context(), in)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for i, w := range result.Weights() {
		if math.IsNaN(w) || math.IsInf(w, 0) || math.Mod(w, 5) != 0 {
			t.Errorf("set %d weight = %v, want a multiple of 5", i, w)
		}
	}
	if got := result.Weights()[0]; got != 300 {
		t.Errorf("first set = %v, want 300 for the malformed step", got)
	}

	if _, err = svc.Record(t.Context(), result); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	history, err := svc.History(t.Context())
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 {
		t.Errorf("got %d history entries, want 1", len(history))
	}
}

func TestService_Calculate_platesFollowSettings(t *testing.T) {
	svc := newService(t)
	ctx := t.Context()

	got, err := svc.Calculate(ctx, oneRepMax("225"))
	if err != nil {
		t.Fatal(err)
	}
	last := got.Sets[len(got.Sets)-1]
	if diff := cmp.Diff(map[float64]int{45: 2}, last.Plates.Counts); diff != "" {
		t.Errorf("plates for 225 mismatch (-want +got):\n%s", diff)
	}
	if last.Notes != "Target weight attempt" {
		t.Errorf("notes = %q", last.Notes)
	}

	if _, err = svc.SetPlateQuantity(ctx, 45, plates.Limited(1)); err != nil {
		t.Fatal(err)
	}
	if _, err = svc.SetBarWeight(ctx, 35); err != nil {
		t.Fatal(err)
	}
	got, err = svc.Calculate(ctx, oneRepMax("225"))
	if err != nil {
		t.Fatal(err)
	}
	last = got.Sets[len(got.Sets)-1]
	// 95 lbs per side with a single pair of 45s.
	if diff := cmp.Diff(map[float64]int{45: 1, 35: 1, 15: 1}, last.Plates.Counts); diff != "" {
		t.Errorf("plates with limited 45s mismatch (-want +got):\n%s", diff)
	}
	if got.BarWeight != 35 {
		t.Errorf("bar weight = %v, want 35", got.BarWeight)
	}
}

func TestService_settings(t *testing.T) {
	svc := newService(t)
	ctx := t.Context()

	settings, err := svc.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.BarWeight != 45 {
		t.Errorf("default bar weight = %v", settings.BarWeight)
	}
	if diff := cmp.Diff(plates.DefaultSelected, settings.Inventory.Enabled()); diff != "" {
		t.Errorf("default plates mismatch (-want +got):\n%s", diff)
	}

	if _, err = svc.SetBarWeight(ctx, 20); !errors.Is(err, calculator.ErrInvalidBarWeight) {
		t.Errorf("SetBarWeight(20) error = %v, want %v", err, calculator.ErrInvalidBarWeight)
	}
	if _, err = svc.TogglePlate(ctx, 12); !errors.Is(err, plates.ErrUnknownPlate) {
		t.Errorf("TogglePlate(12) error = %v, want %v", err, plates.ErrUnknownPlate)
	}

	steps := []func() (calculator.Settings, error){
		func() (calculator.Settings, error) { return svc.TogglePlate(ctx, 55) },
		func() (calculator.Settings, error) { return svc.TogglePlate(ctx, 2.5) },
		func() (calculator.Settings, error) { return svc.AdjustPlateQuantity(ctx, 45, +1) },
		func() (calculator.Settings, error) { return svc.AdjustPlateQuantity(ctx, 45, +1) },
		func() (calculator.Settings, error) { return svc.TogglePlateUnlimited(ctx, 35) },
		func() (calculator.Settings, error) { return svc.AdjustPlateQuantity(ctx, 35, -1) },
		func() (calculator.Settings, error) { return svc.SetPlateQuantity(ctx, 25, plates.Limited(0)) },
		func() (calculator.Settings, error) { return svc.SetBarWeight(ctx, 15) },
	}
	for i, step := range steps {
		if _, err = step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}

	settings, err = svc.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if settings.BarWeight != 15 {
		t.Errorf("bar weight = %v, want 15", settings.BarWeight)
	}
	if diff := cmp.Diff([]float64{55, 45, 15, 10, 5}, settings.Inventory.Enabled()); diff != "" {
		t.Errorf("enabled plates mismatch (-want +got):\n%s", diff)
	}
	wantQuantities := map[float64]plates.Quantity{
		45: plates.Limited(3),
		35: plates.Unlimited(),
		25: plates.Limited(0),
		15: plates.Unlimited(),
	}
	for d, want := range wantQuantities {
		if got := settings.Inventory.Quantity(d); got != want {
			t.Errorf("Quantity(%v) = %v, want %v", d, got, want)
		}
	}
	if settings.Inventory.Selected(35) {
		t.Error("35 is still selected after removing its last pair")
	}

	if _, err = svc.SetPlateUnlimited(ctx, 45); err != nil {
		t.Fatal(err)
	}
	settings, err = svc.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !settings.Inventory.Quantity(45).IsUnlimited() {
		t.Errorf("Quantity(45) = %v, want unlimited", settings.Inventory.Quantity(45))
	}
}

func TestService_history(t *testing.T) {
	svc := newService(t)
	ctx := t.Context()

	record := func(in calculator.Inputs) bool {
		t.Helper()
		result, err := svc.Calculate(ctx, in)
		if err != nil {
			t.Fatal(err)
		}
		added, err := svc.Record(ctx, result)
		if err != nil {
			t.Fatal(err)
		}
		return added
	}

	if record(oneRepMax("")) {
		t.Error("empty result was recorded")
	}
	if !record(oneRepMax("300")) {
		t.Error("first calculation was not recorded")
	}
	if record(oneRepMax("300")) {
		t.Error("duplicate calculation was recorded")
	}
	if !record(uniform("135", "5")) {
		t.Error("uniform calculation was not recorded")
	}

	entries, err := svc.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	newest, oldest := entries[0], entries[1]
	if newest.Mode != calculator.ModeUniform || newest.Reps != 5 || newest.Sets != 5 {
		t.Errorf("newest entry = %+v", newest)
	}
	if diff := cmp.Diff([]float64{180, 210, 235, 255, 275, 290, 300}, oldest.Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if oldest.SchemeID != "standard" || oldest.BaseWeight != 300 || oldest.Sets != 7 || oldest.Reps != 1 {
		t.Errorf("oldest entry = %+v", oldest)
	}

	loaded, err := svc.HistoryEntry(ctx, oldest.ID)
	if err != nil {
		t.Fatal(err)
	}
	wantInputs := calculator.DefaultInputs()
	wantInputs.TargetWeight = "300"
	if diff := cmp.Diff(wantInputs, loaded.Inputs()); diff != "" {
		t.Errorf("Inputs() mismatch (-want +got):\n%s", diff)
	}
	wantUniform := calculator.DefaultInputs()
	wantUniform.Mode = calculator.ModeUniform
	wantUniform.UniformWeight = "135"
	wantUniform.Sets = "5"
	wantUniform.Reps = "5"
	if diff := cmp.Diff(wantUniform, newest.Inputs()); diff != "" {
		t.Errorf("uniform Inputs() mismatch (-want +got):\n%s", diff)
	}

	if _, err = svc.HistoryEntry(ctx, uuid.New()); !errors.Is(err, calculator.ErrNotFound) {
		t.Errorf("HistoryEntry(unknown) error = %v, want %v", err, calculator.ErrNotFound)
	}

	if err = svc.ClearHistory(ctx); err != nil {
		t.Fatal(err)
	}
	if entries, err = svc.History(ctx); err != nil || len(entries) != 0 {
		t.Errorf("History() after clear = %v, %v", entries, err)
	}
}

func TestService_historyKeepsTheTenNewest(t *testing.T) {
	svc := newService(t)
	ctx := t.Context()

	for i := range 12 {
		result, err := svc.Calculate(ctx, oneRepMax(strconv.Itoa(200+i*5)))
		if err != nil {
			t.Fatal(err)
		}
		if _, err = svc.Record(ctx, result); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := svc.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != calculator.MaxHistory {
		t.Fatalf("got %d entries, want %d", len(entries), calculator.MaxHistory)
	}
	if entries[0].BaseWeight != 255 || entries[len(entries)-1].BaseWeight != 210 {
		t.Errorf("kept %v .. %v, want 255 .. 210", entries[0].BaseWeight, entries[len(entries)-1].BaseWeight)
	}
}

func TestService_ExportHistoryXLSX(t *testing.T) {
	svc := newService(t)
	ctx := t.Context()

	for _, in := range []calculator.Inputs{oneRepMax("300"), uniform("135", "3")} {
		result, err := svc.Calculate(ctx, in)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = svc.Record(ctx, result); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := svc.ExportHistoryXLSX(ctx, &buf); err != nil {
		t.Fatalf("ExportHistoryXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows("History")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header and 2 entries", len(rows))
	}
	if diff := cmp.Diff([]string{"Date", "Mode", "Base weight (lbs)", "Sets", "Reps", "Scheme",
		"Set 1", "Set 2", "Set 3", "Set 4", "Set 5", "Set 6", "Set 7"}, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Uniform", "135", "3", "5", "", "135", "135", "135"}, rows[1][1:]); diff != "" {
		t.Errorf("uniform row mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1RM", "300", "7", "1", "standard", "180", "210", "235", "255", "275", "290", "300"},
		rows[2][1:]); diff != "" {
		t.Errorf("1rm row mismatch (-want +got):\n%s", diff)
	}
}
