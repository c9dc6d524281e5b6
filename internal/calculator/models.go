package calculator

import (
	"time"

	"github.com/google/uuid"

	"github.com/myrjola/liftcalc/internal/plates"
	"github.com/myrjola/liftcalc/internal/progression"
	"github.com/myrjola/liftcalc/internal/weight"
)

// Mode selects how set weights are derived.
type Mode string

const (
	// ModeOneRepMax works up to a target weight following a progression scheme.
	ModeOneRepMax Mode = "1rm"
	// ModeUniform repeats the same weight for every set.
	ModeUniform Mode = "uniform"
)

// ParseMode returns the mode named by s, defaulting to [ModeOneRepMax].
func ParseMode(s string) Mode {
	if Mode(s) == ModeUniform {
		return ModeUniform
	}
	return ModeOneRepMax
}

// DefaultReps is used when the reps field is empty or invalid.
const DefaultReps = 1

// Inputs are the calculator form fields as typed. They are kept as strings so that half typed values survive a
// round trip through the session.
type Inputs struct {
	// Exercise is an optional lift name used to flag max effort singles.
	Exercise      string
	Mode          Mode
	TargetWeight  string
	UniformWeight string
	Sets          string
	Reps          string
	SchemeID      string
	SmallPlates   bool
}

// DefaultInputs returns the form of a first visit.
func DefaultInputs() Inputs {
	return Inputs{
		Exercise:      "",
		Mode:          ModeOneRepMax,
		TargetWeight:  "",
		UniformWeight: "",
		Sets:          "7",
		Reps:          "1",
		SchemeID:      progression.DefaultSchemeID,
		SmallPlates:   true,
	}
}

// Set is one calculated set with its plates.
type Set struct {
	progression.SetResult
	// Notes comes from the scheme step, if any.
	Notes  string
	Plates plates.Breakdown
}

// Result is a calculation ready for display.
type Result struct {
	Mode       Mode
	Scheme     progression.Scheme
	BaseWeight float64
	Reps       int
	BarWeight  float64
	Sets       []Set
}

// Empty reports whether there is nothing to show, e.g. because the weight is still being typed.
func (r Result) Empty() bool {
	return len(r.Sets) == 0
}

// Weights returns the set weights in order.
func (r Result) Weights() []float64 {
	ws := make([]float64, len(r.Sets))
	for i, s := range r.Sets {
		ws[i] = s.Weight
	}
	return ws
}

// HistoryEntry is a past calculation.
type HistoryEntry struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Mode       Mode
	BaseWeight float64
	Sets       int
	Reps       int
	SchemeID   string
	Results    []float64
}

// Inputs restores the form that produced the entry.
func (e HistoryEntry) Inputs() Inputs {
	in := DefaultInputs()
	in.Mode = e.Mode
	in.Sets = weight.Format(float64(e.Sets))
	in.Reps = weight.Format(float64(e.Reps))
	switch e.Mode {
	case ModeUniform:
		in.UniformWeight = weight.Format(e.BaseWeight)
	case ModeOneRepMax:
		in.TargetWeight = weight.Format(e.BaseWeight)
		in.SchemeID = e.SchemeID
	}
	return in
}

// Settings is the lifter's equipment.
type Settings struct {
	BarWeight float64
	Inventory plates.Inventory
}

// DefaultSettings is a 45 lb bar and the standard gym set of plates.
func DefaultSettings() Settings {
	return Settings{BarWeight: plates.DefaultBarWeight, Inventory: plates.DefaultInventory()}
}
