// Package plates works out which plates to load on each side of a barbell.
package plates

import "slices"

// SmallPlateMax is the heaviest plate counted as a small plate. Small plates are only used when asked for.
const SmallPlateMax = 2.5

// DefaultBarWeight is the bar used until the lifter picks another one.
const DefaultBarWeight = 45.0

//nolint:gochecknoglobals // read-only catalog.
var (
	// AllDenominations lists every plate the calculator knows about, heaviest first.
	AllDenominations = []float64{55, 45, 35, 25, 15, 10, 5, 2.5}
	// DefaultSelected is the typical gym set enabled for new lifters.
	DefaultSelected = []float64{45, 35, 25, 15, 10, 5, 2.5}
	// BarWeights are the selectable bars.
	BarWeights = []float64{45, 35, 15}
)

// InCatalog reports whether d is one of [AllDenominations].
func InCatalog(d float64) bool {
	return slices.Contains(AllDenominations, d)
}

// IsBarWeight reports whether w is one of [BarWeights].
func IsBarWeight(w float64) bool {
	return slices.Contains(BarWeights, w)
}

// Style describes how a plate is drawn in the plate stack.
type Style struct {
	// Class is the CSS modifier, e.g. "plate-45".
	Class string
	// Height and Thickness are in pixels.
	Height    int
	Thickness int
}

//nolint:gochecknoglobals // read-only catalog.
var styles = map[float64]Style{
	55:  {Class: "plate-55", Height: 40, Thickness: 28},
	45:  {Class: "plate-45", Height: 40, Thickness: 24},
	35:  {Class: "plate-35", Height: 40, Thickness: 20},
	25:  {Class: "plate-25", Height: 40, Thickness: 18},
	15:  {Class: "plate-15", Height: 40, Thickness: 14},
	10:  {Class: "plate-10", Height: 40, Thickness: 12},
	5:   {Class: "plate-5", Height: 28, Thickness: 10},
	2.5: {Class: "plate-2-5", Height: 22, Thickness: 16},
}

// StyleOf returns the drawing style of plate d with a neutral fallback for plates outside the catalog.
func StyleOf(d float64) Style {
	if s, ok := styles[d]; ok {
		return s
	}
	return Style{Class: "plate-other", Height: 30, Thickness: 14} //nolint:mnd // fallback size.
}
