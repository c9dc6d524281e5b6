package plates

import (
	"fmt"
	"math"
	"slices"

	"github.com/myrjola/liftcalc/internal/weight"
)

// floorSlack keeps divisions like 5.0/2.5 from flooring to one less than the exact quotient.
const floorSlack = 1e-9

// Breakdown is the plates to load on one side of the bar.
type Breakdown struct {
	// Counts maps plate weight to the number of plates per side.
	Counts map[float64]int
	// ShortfallLb is the weight per side the plates could not cover. Zero when the load is exact.
	ShortfallLb float64
}

// Solve works out the plates per side for loading totalWeight on a bar of barWeight.
//
// Plates are taken greedily heaviest first, never more than the inventory allows. Small plates are skipped unless
// includeSmallPlates is set. Whatever can't be loaded is reported as the shortfall rather than an error.
func Solve(totalWeight, barWeight float64, inv Inventory, includeSmallPlates bool) Breakdown {
	if math.IsNaN(totalWeight) || math.IsInf(totalWeight, 0) || totalWeight < 0 {
		totalWeight = 0
	}
	b := Breakdown{Counts: map[float64]int{}, ShortfallLb: 0}
	if totalWeight <= barWeight {
		return b
	}

	remaining := max(0, (totalWeight-barWeight)/2) //nolint:mnd // two sides.
	for _, d := range inv.Enabled() {
		if !includeSmallPlates && d <= SmallPlateMax {
			continue
		}
		count := int(math.Floor(remaining/d + floorSlack))
		if n, limited := inv.Quantity(d).Pairs(); limited {
			count = min(count, n)
		}
		if count > 0 {
			b.Counts[d] = count
			remaining -= float64(count) * d
		}
	}
	if remaining > weight.Epsilon {
		b.ShortfallLb = remaining
	}
	return b
}

// Empty reports whether no plates are loaded.
func (b Breakdown) Empty() bool {
	return len(b.Counts) == 0
}

// PerSide returns the weight of the plates on one side.
func (b Breakdown) PerSide() float64 {
	var sum float64
	for d, n := range b.Counts {
		sum += d * float64(n)
	}
	return sum
}

// LoadedWeight returns the total weight on the bar.
func (b Breakdown) LoadedWeight(barWeight float64) float64 {
	return barWeight + 2*b.PerSide() //nolint:mnd // two sides.
}

// Stack lists one entry per plate from the collar inwards, heaviest first.
func (b Breakdown) Stack() []float64 {
	var stack []float64
	for _, d := range b.denominations() {
		for range b.Counts[d] {
			stack = append(stack, d)
		}
	}
	return stack
}

// PlateCount is a plate weight and how many of it go on each side.
type PlateCount struct {
	Weight float64
	Count  int
}

// Plates returns the counts heaviest first.
func (b Breakdown) Plates() []PlateCount {
	plates := make([]PlateCount, 0, len(b.Counts))
	for _, d := range b.denominations() {
		plates = append(plates, PlateCount{Weight: d, Count: b.Counts[d]})
	}
	return plates
}

func (b Breakdown) denominations() []float64 {
	ds := make([]float64, 0, len(b.Counts))
	for d := range b.Counts {
		ds = append(ds, d)
	}
	slices.SortFunc(ds, descending)
	return ds
}

// ShortfallLabel describes the missing weight across both sides, e.g. "Short 2.5 lbs (limited plates)". It is
// empty when there is no shortfall.
func (b Breakdown) ShortfallLabel() string {
	if b.ShortfallLb <= 0 {
		return ""
	}
	return fmt.Sprintf("Short %.1f lbs (limited plates)", 2*b.ShortfallLb) //nolint:mnd // two sides.
}
