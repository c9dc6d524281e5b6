// Package calculator ties the progression and plate calculations to the lifter's stored settings and history.
package calculator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/myrjola/liftcalc/internal/errors"
	"github.com/myrjola/liftcalc/internal/plates"
	"github.com/myrjola/liftcalc/internal/progression"
	"github.com/myrjola/liftcalc/internal/sqlite"
	"github.com/myrjola/liftcalc/internal/weight"
)

var (
	ErrNotFound         = errors.NewSentinel("not found")
	ErrInvalidBarWeight = errors.NewSentinel("bar weight not available")
)

// Service handles calculations, settings, and history.
type Service struct {
	settings *settingsRepository
	history  *historyRepository
	logger   *slog.Logger
	registry progression.Registry
	cache    *progression.Cache
	now      func() time.Time
}

// NewService creates a calculator service. cache may be nil to compute every progression afresh.
func NewService(
	db *sqlite.Database,
	logger *slog.Logger,
	registry progression.Registry,
	cache *progression.Cache,
) *Service {
	return &Service{
		settings: newSettingsRepository(db),
		history:  newHistoryRepository(db),
		logger:   logger,
		registry: registry,
		cache:    cache,
		now:      time.Now,
	}
}

// Schemes lists the available progression schemes.
func (s *Service) Schemes() []progression.Scheme {
	return s.registry.All()
}

// Scheme looks up a scheme by ID.
func (s *Service) Scheme(id string) (progression.Scheme, bool) {
	return s.registry.Lookup(id)
}

// Calculate derives the sets for in and the plates for each set using the stored settings.
//
// Invalid or missing weights give an empty result, not an error. The error is reserved for failing to read the
// settings.
func (s *Service) Calculate(ctx context.Context, in Inputs) (Result, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("get settings: %w", err)
	}

	result := Result{
		Mode:       "",
		Scheme:     progression.Scheme{},
		BaseWeight: 0,
		Reps:       weight.ParseCount(in.Reps, DefaultReps),
		BarWeight:  settings.BarWeight,
		Sets:       []Set{},
	}

	var sets []progression.SetResult
	if ParseMode(string(in.Mode)) == ModeUniform {
		result.Mode = ModeUniform
		result.BaseWeight = weight.Parse(in.UniformWeight)
		sets = progression.Uniform(result.BaseWeight, weight.ParseCount(in.Sets, progression.DefaultUniformSets))
	} else {
		// The 1RM work-up always has the same number of sets regardless of the sets field.
		result.Mode = ModeOneRepMax
		result.BaseWeight = weight.Parse(in.TargetWeight)
		result.Scheme = s.resolveScheme(ctx, in.SchemeID)
		sets = s.cache.Compute(result.BaseWeight, result.Scheme, progression.OneRepMaxSets)
	}

	steps := result.Scheme.Steps()
	for i, set := range sets {
		breakdown := plates.Solve(set.Weight, settings.BarWeight, settings.Inventory, in.SmallPlates)
		if breakdown.ShortfallLb > 0 {
			s.logger.LogAttrs(ctx, slog.LevelDebug, "plates fall short",
				slog.Int("set", i), slog.Float64("weight", set.Weight), slog.Float64("shortfall", breakdown.ShortfallLb))
		}
		var notes string
		if i < len(steps) {
			notes = steps[i].Notes
		}
		result.Sets = append(result.Sets, Set{SetResult: set, Notes: notes, Plates: breakdown})
	}
	return result, nil
}

func (s *Service) resolveScheme(ctx context.Context, id string) progression.Scheme {
	scheme, ok := s.registry.Lookup(id)
	if !ok {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "unknown scheme, using default",
			slog.String("scheme_id", id), slog.String("default", progression.DefaultSchemeID))
		scheme = s.registry.Resolve(id)
	}
	if malformed := scheme.MalformedSteps(); len(malformed) > 0 {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "scheme has steps without percentage, using 100%",
			slog.String("scheme_id", scheme.ID), slog.Any("steps", malformed))
	}
	return scheme
}

// PlateLoad solves the plates for a single total weight typed into the plate calculator.
func (s *Service) PlateLoad(ctx context.Context, total string, smallPlates bool) (float64, plates.Breakdown, Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, plates.Breakdown{}, Settings{}, fmt.Errorf("get settings: %w", err)
	}
	w := weight.Parse(total)
	return w, plates.Solve(w, settings.BarWeight, settings.Inventory, smallPlates), settings, nil
}

// Record stores a non-empty result in the history. It reports whether a new entry was added, which is not the
// case for empty results and repeats of a calculation already in the history.
func (s *Service) Record(ctx context.Context, r Result) (bool, error) {
	if r.Empty() {
		return false, nil
	}
	entry := HistoryEntry{
		ID:         uuid.New(),
		CreatedAt:  s.now(),
		Mode:       r.Mode,
		BaseWeight: r.BaseWeight,
		Sets:       len(r.Sets),
		Reps:       r.Reps,
		SchemeID:   r.Scheme.ID,
		Results:    r.Weights(),
	}
	added, err := s.history.Add(ctx, entry)
	if err != nil {
		return false, fmt.Errorf("add history entry: %w", err)
	}
	if added {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "recorded calculation",
			slog.String("id", entry.ID.String()), slog.String("mode", string(entry.Mode)),
			slog.Float64("base_weight", entry.BaseWeight))
	}
	return added, nil
}

// History returns the recorded calculations, newest first.
func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	entries, err := s.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// HistoryEntry returns a single recorded calculation. Unknown IDs yield [ErrNotFound].
func (s *Service) HistoryEntry(ctx context.Context, id uuid.UUID) (HistoryEntry, error) {
	e, err := s.history.Get(ctx, id)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("get history entry: %w", err)
	}
	return e, nil
}

// ClearHistory forgets every recorded calculation.
func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Settings returns the stored equipment.
func (s *Service) Settings(ctx context.Context) (Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// SetBarWeight selects one of [plates.BarWeights].
func (s *Service) SetBarWeight(ctx context.Context, barWeight float64) (Settings, error) {
	return s.updateSettings(ctx, "set bar weight", func(settings *Settings) error {
		if !plates.IsBarWeight(barWeight) {
			return errors.Wrap(ErrInvalidBarWeight, "check bar weight", slog.Float64("bar_weight", barWeight))
		}
		settings.BarWeight = barWeight
		return nil
	})
}

// TogglePlate selects or deselects plate d.
func (s *Service) TogglePlate(ctx context.Context, d float64) (Settings, error) {
	return s.updateInventory(ctx, "toggle plate", func(inv *plates.Inventory) error {
		return inv.Toggle(d)
	})
}

// SetPlateQuantity caps plate d at q.
func (s *Service) SetPlateQuantity(ctx context.Context, d float64, q plates.Quantity) (Settings, error) {
	return s.updateInventory(ctx, "set plate quantity", func(inv *plates.Inventory) error {
		return inv.SetQuantity(d, q)
	})
}

// SetPlateUnlimited removes the cap on plate d.
func (s *Service) SetPlateUnlimited(ctx context.Context, d float64) (Settings, error) {
	return s.updateInventory(ctx, "set plate unlimited", func(inv *plates.Inventory) error {
		return inv.SetUnlimited(d)
	})
}

// TogglePlateUnlimited switches plate d between unlimited and a single pair.
func (s *Service) TogglePlateUnlimited(ctx context.Context, d float64) (Settings, error) {
	return s.updateInventory(ctx, "toggle plate unlimited", func(inv *plates.Inventory) error {
		return inv.ToggleUnlimited(d)
	})
}

// AdjustPlateQuantity adds a pair of plate d for a positive delta and removes one otherwise.
func (s *Service) AdjustPlateQuantity(ctx context.Context, d float64, delta int) (Settings, error) {
	return s.updateInventory(ctx, "adjust plate quantity", func(inv *plates.Inventory) error {
		if delta > 0 {
			return inv.Increment(d)
		}
		return inv.Decrement(d)
	})
}

func (s *Service) updateInventory(ctx context.Context, action string, fn func(*plates.Inventory) error) (Settings, error) {
	return s.updateSettings(ctx, action, func(settings *Settings) error {
		return fn(&settings.Inventory)
	})
}

func (s *Service) updateSettings(ctx context.Context, action string, fn func(*Settings) error) (Settings, error) {
	settings, err := s.settings.Update(ctx, fn)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", action, err)
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "updated settings", slog.String("action", action))
	return settings, nil
}
