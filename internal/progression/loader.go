package progression

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/myrjola/liftcalc/internal/errors"
)

type schemeFile struct {
	Schemes []schemeDocument `yaml:"schemes"`
}

type schemeDocument struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	TargetMetric string         `yaml:"target_metric"`
	Steps        []stepDocument `yaml:"steps"`
}

type stepDocument struct {
	Percentage *float64 `yaml:"percentage"`
	Notes      string   `yaml:"notes"`
}

// Decode reads custom schemes from YAML:
//
//	schemes:
//	  - id: heavySingles
//	    name: Heavy Singles
//	    description: Three singles after a short work-up.
//	    target_metric: Percentage of 1RM
//	    steps:
//	      - percentage: 70
//	        notes: Warm-up
//	      - percentage: 90
//
// Steps are numbered in file order. A step without a percentage is kept and later treated as 100%.
func Decode(r io.Reader) ([]Scheme, error) {
	var f schemeFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode schemes: %w", err)
	}

	schemes := make([]Scheme, 0, len(f.Schemes))
	for _, doc := range f.Schemes {
		steps := make([]Step, len(doc.Steps))
		for i, s := range doc.Steps {
			steps[i] = Step{Index: i + 1, SetNumber: i + 1, Percentage: s.Percentage, Notes: s.Notes}
		}
		name := doc.Name
		if name == "" {
			name = doc.ID
		}
		schemes = append(schemes, NewScheme(doc.ID, name, doc.Description, doc.TargetMetric, steps))
	}
	return schemes, nil
}

// LoadRegistry returns the built-in schemes extended with the schemes in the YAML file at path.
// An empty path returns the built-in schemes only.
func LoadRegistry(path string) (Registry, error) {
	builtin := Builtin()
	if path == "" {
		return builtin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Registry{}, errors.Wrap(err, "open schemes file", slog.String("path", path))
	}
	defer func() {
		_ = f.Close()
	}()
	custom, err := Decode(f)
	if err != nil {
		return Registry{}, errors.Wrap(err, "read schemes file", slog.String("path", path))
	}
	registry, err := builtin.With(custom...)
	if err != nil {
		return Registry{}, errors.Wrap(err, "register custom schemes", slog.String("path", path))
	}
	return registry, nil
}
