package calculator

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/myrjola/liftcalc/internal/errors"
	"github.com/myrjola/liftcalc/internal/plates"
	"github.com/myrjola/liftcalc/internal/sqlite"
)

type settingsRepository struct {
	db *sqlite.Database
}

func newSettingsRepository(db *sqlite.Database) *settingsRepository {
	return &settingsRepository{db: db}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Get reads the settings. A database without a settings row yields the defaults.
func (r *settingsRepository) Get(ctx context.Context) (Settings, error) {
	return readSettings(ctx, r.db.ReadOnly)
}

func readSettings(ctx context.Context, q querier) (Settings, error) {
	settings := DefaultSettings()
	err := q.QueryRowContext(ctx, "SELECT bar_weight FROM settings WHERE id = 1").Scan(&settings.BarWeight)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("query bar weight: %w", err)
	}

	rows, err := q.QueryContext(ctx, "SELECT weight, selected, pairs FROM plates ORDER BY weight DESC")
	if err != nil {
		return Settings{}, fmt.Errorf("query plates: %w", err)
	}
	defer rows.Close()

	var (
		selected []float64
		limits   = map[float64]plates.Quantity{}
	)
	for rows.Next() {
		var (
			d        float64
			isActive bool
			pairs    sql.NullInt64
		)
		if err = rows.Scan(&d, &isActive, &pairs); err != nil {
			return Settings{}, fmt.Errorf("scan plate: %w", err)
		}
		if !plates.InCatalog(d) {
			continue
		}
		if isActive {
			selected = append(selected, d)
		}
		if pairs.Valid {
			limits[d] = plates.Limited(int(pairs.Int64))
		}
	}
	if err = rows.Err(); err != nil {
		return Settings{}, fmt.Errorf("iterate plates: %w", err)
	}

	if settings.Inventory, err = plates.NewInventory(selected, limits); err != nil {
		return Settings{}, fmt.Errorf("build inventory: %w", err)
	}
	return settings, nil
}

// Update applies fn to the current settings and stores the result in one transaction.
func (r *settingsRepository) Update(ctx context.Context, fn func(*Settings) error) (_ Settings, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return Settings{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	settings, err := readSettings(ctx, tx)
	if err != nil {
		return Settings{}, err
	}
	if err = fn(&settings); err != nil {
		return Settings{}, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO settings (id, bar_weight) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET bar_weight = excluded.bar_weight`, settings.BarWeight); err != nil {
		return Settings{}, errors.Wrap(err, "save bar weight", slog.Float64("bar_weight", settings.BarWeight))
	}
	for _, d := range plates.AllDenominations {
		var pairs sql.NullInt64
		if n, limited := settings.Inventory.Quantity(d).Pairs(); limited {
			pairs = sql.NullInt64{Int64: int64(n), Valid: true}
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO plates (weight, selected, pairs) VALUES (?, ?, ?)
			ON CONFLICT (weight) DO UPDATE SET selected = excluded.selected, pairs = excluded.pairs`,
			d, settings.Inventory.Selected(d), pairs); err != nil {
			return Settings{}, errors.Wrap(err, "save plate", slog.Float64("plate", d))
		}
	}

	if err = tx.Commit(); err != nil {
		return Settings{}, fmt.Errorf("commit settings: %w", err)
	}
	return settings, nil
}
