// Package progression turns a target weight and a named percentage scheme into the weights of successive sets.
package progression

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/myrjola/liftcalc/internal/errors"
)

// DefaultSchemeID is the scheme used when the requested one is unknown.
const DefaultSchemeID = "standard"

// OneRepMaxSets is the number of sets in the 1RM work-up.
const OneRepMaxSets = 7

var (
	ErrDuplicateScheme = errors.NewSentinel("duplicate scheme id")
	ErrInvalidScheme   = errors.NewSentinel("invalid scheme")
)

// Step is one set of a scheme. The order of steps in a scheme is the order the sets are performed in.
type Step struct {
	Index     int
	SetNumber int
	// Percentage of the target weight. Nil, NaN or infinite marks a malformed step, which is treated as 100%.
	Percentage *float64
	Notes      string
}

// Malformed reports whether the step has no usable percentage.
func (s Step) Malformed() bool {
	return s.Percentage == nil || math.IsNaN(*s.Percentage) || math.IsInf(*s.Percentage, 0)
}

func (s Step) percent() float64 {
	if s.Malformed() {
		return 100 //nolint:mnd // full target weight.
	}
	return *s.Percentage
}

// Scheme is an immutable named progression.
type Scheme struct {
	ID            string
	AlgorithmName string
	Description   string
	TargetMetric  string
	steps         []Step
}

// NewScheme copies steps so that later changes by the caller don't leak into the scheme.
func NewScheme(id, algorithmName, description, targetMetric string, steps []Step) Scheme {
	copied := make([]Step, len(steps))
	for i, s := range steps {
		if s.Percentage != nil {
			pct := *s.Percentage
			s.Percentage = &pct
		}
		copied[i] = s
	}
	return Scheme{
		ID:            id,
		AlgorithmName: algorithmName,
		Description:   description,
		TargetMetric:  targetMetric,
		steps:         copied,
	}
}

// Steps returns a copy of the steps in order.
func (s Scheme) Steps() []Step {
	return NewScheme("", "", "", "", s.steps).steps
}

// Len returns the number of steps.
func (s Scheme) Len() int {
	return len(s.steps)
}

// MalformedSteps returns the indexes of steps without a usable percentage.
func (s Scheme) MalformedSteps() []int {
	var idx []int
	for i, step := range s.steps {
		if step.Malformed() {
			idx = append(idx, i)
		}
	}
	return idx
}

func slogName(s Scheme) slog.Attr {
	return slog.String("scheme", s.AlgorithmName)
}

// Registry is a read-only table of schemes keyed by ID. The zero value is empty.
type Registry struct {
	schemes map[string]Scheme
	order   []string
}

// NewRegistry validates and indexes schemes. Every scheme needs an ID and at least one step.
func NewRegistry(schemes ...Scheme) (Registry, error) {
	r := Registry{schemes: make(map[string]Scheme, len(schemes)), order: make([]string, 0, len(schemes))}
	for _, s := range schemes {
		if s.ID == "" {
			return Registry{}, errors.Wrap(ErrInvalidScheme, "missing id", slogName(s))
		}
		if s.Len() == 0 {
			return Registry{}, errors.Wrap(ErrInvalidScheme, "no steps", slogName(s))
		}
		if _, ok := r.schemes[s.ID]; ok {
			return Registry{}, errors.Wrap(ErrDuplicateScheme, "register scheme", slog.String("id", s.ID))
		}
		r.schemes[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r, nil
}

// With returns a new registry with extra appended. Existing IDs can't be replaced.
func (r Registry) With(extra ...Scheme) (Registry, error) {
	all := r.All()
	all = append(all, extra...)
	merged, err := NewRegistry(all...)
	if err != nil {
		return Registry{}, fmt.Errorf("merge schemes: %w", err)
	}
	return merged, nil
}

// Lookup returns the scheme with the given id.
func (r Registry) Lookup(id string) (Scheme, bool) {
	s, ok := r.schemes[id]
	return s, ok
}

// Resolve returns the scheme with the given id or the default scheme when it is unknown.
func (r Registry) Resolve(id string) Scheme {
	if s, ok := r.schemes[id]; ok {
		return s
	}
	return r.schemes[DefaultSchemeID]
}

// All returns the schemes in registration order.
func (r Registry) All() []Scheme {
	all := make([]Scheme, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.schemes[id])
	}
	return all
}

// IDs returns the registered IDs in registration order.
func (r Registry) IDs() []string {
	return slices.Clone(r.order)
}
