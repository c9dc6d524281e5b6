package progression

import (
	"math"
	"strings"

	"github.com/myrjola/liftcalc/internal/ptr"
	"github.com/myrjola/liftcalc/internal/weight"
)

// DefaultUniformSets is the set count used in uniform mode when none is given.
const DefaultUniformSets = 4

// SetResult is the calculated weight of one set.
type SetResult struct {
	SetIndex int     `json:"set_index"`
	Weight   float64 `json:"weight"`
	// PercentageUsed is the rounded percentage of the target. Nil when unknown, e.g. for results restored from history.
	PercentageUsed *int `json:"percentage_used,omitempty"`
}

// Compute returns setCount sets working up to targetWeight following scheme.
//
// Sets with a matching step use its percentage. Sets beyond the scheme's steps are interpolated linearly between the
// first and last step, or between 0% and 100% for a scheme without steps. Weights are rounded to the nearest 5 lb
// with halves rounded up.
//
// An invalid targetWeight or a non-positive setCount yields an empty result rather than an error since the caller is
// usually a form that is still being typed into.
func Compute(targetWeight float64, scheme Scheme, setCount int) []SetResult {
	if !weight.Valid(targetWeight) || setCount <= 0 {
		return []SetResult{}
	}

	steps := scheme.steps
	if len(steps) > setCount {
		steps = steps[:setCount]
	}

	results := make([]SetResult, setCount)
	for i := range setCount {
		pct := percentageAt(steps, i, setCount)
		results[i] = SetResult{
			SetIndex:       i,
			Weight:         weight.RoundToIncrement(targetWeight * pct / 100), //nolint:mnd // percent.
			PercentageUsed: ptr.Ref(int(math.Round(pct))),
		}
	}
	return results
}

func percentageAt(steps []Step, i, setCount int) float64 {
	if i < len(steps) {
		return steps[i].percent()
	}
	first, last := 0.0, 100.0
	if len(steps) > 0 {
		first = steps[0].percent()
		last = steps[len(steps)-1].percent()
	}
	if setCount <= 1 {
		if len(steps) > 0 {
			return first
		}
		return last
	}
	return first + (last-first)*float64(i)/float64(setCount-1)
}

// Uniform returns setCount sets of the same weight at 100%. A non-positive setCount uses [DefaultUniformSets].
func Uniform(workingWeight float64, setCount int) []SetResult {
	if !weight.Valid(workingWeight) {
		return []SetResult{}
	}
	if setCount <= 0 {
		setCount = DefaultUniformSets
	}
	results := make([]SetResult, setCount)
	for i := range results {
		results[i] = SetResult{SetIndex: i, Weight: workingWeight, PercentageUsed: ptr.Ref(100)} //nolint:mnd // percent.
	}
	return results
}

// Weights extracts the weights of results.
func Weights(results []SetResult) []float64 {
	weights := make([]float64, len(results))
	for i, r := range results {
		weights[i] = r.Weight
	}
	return weights
}

//nolint:gochecknoglobals // read-only keyword list.
var maxEffortKeywords = []string{"squat", "bench", "deadlift", "press", "good morning"}

// IsMaxEffort reports whether an exercise titled title with setCount sets is a max effort main lift, i.e. one of the
// competition-style lifts worked up over the full 1RM progression.
func IsMaxEffort(title string, setCount int) bool {
	if setCount != OneRepMaxSets {
		return false
	}
	lower := strings.ToLower(title)
	for _, k := range maxEffortKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
