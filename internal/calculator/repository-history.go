package calculator

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/myrjola/liftcalc/internal/errors"
	"github.com/myrjola/liftcalc/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// MaxHistory is the number of calculations kept.
const MaxHistory = 10

type historyRepository struct {
	db *sqlite.Database
}

func newHistoryRepository(db *sqlite.Database) *historyRepository {
	return &historyRepository{db: db}
}

const historyColumns = "id, created_at, mode, base_weight, sets, reps, scheme_id, results"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistoryEntry(row rowScanner) (HistoryEntry, error) {
	var (
		e         HistoryEntry
		id        string
		createdAt string
		mode      string
		results   []byte
	)
	if err := row.Scan(&id, &createdAt, &mode, &e.BaseWeight, &e.Sets, &e.Reps, &e.SchemeID, &results); err != nil {
		return HistoryEntry{}, fmt.Errorf("scan history entry: %w", err)
	}
	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return HistoryEntry{}, errors.Wrap(err, "parse history id", slog.String("id", id))
	}
	if e.CreatedAt, err = time.Parse(timestampFormat, createdAt); err != nil {
		return HistoryEntry{}, errors.Wrap(err, "parse history timestamp", slog.String("created_at", createdAt))
	}
	if err = json.Unmarshal(results, &e.Results); err != nil {
		return HistoryEntry{}, errors.Wrap(err, "decode history results", slog.String("id", id))
	}
	e.Mode = ParseMode(mode)
	return e, nil
}

// List returns the entries newest first.
func (r *historyRepository) List(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, "SELECT "+historyColumns+" FROM history ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	var entries []HistoryEntry
	for rows.Next() {
		e, scanErr := scanHistoryEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Get returns the entry with id or ErrNotFound.
func (r *historyRepository) Get(ctx context.Context, id uuid.UUID) (HistoryEntry, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, "SELECT "+historyColumns+" FROM history WHERE id = ?", id.String())
	e, err := scanHistoryEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return HistoryEntry{}, errors.Wrap(ErrNotFound, "get history entry", slog.String("id", id.String()))
	}
	return e, err
}

func isDuplicate(a, b HistoryEntry) bool {
	return a.Mode == b.Mode && a.BaseWeight == b.BaseWeight && a.Sets == b.Sets && a.Reps == b.Reps &&
		slices.Equal(a.Results, b.Results)
}

// Add stores e as the newest entry unless an identical calculation is already in the history. Entries beyond
// [MaxHistory] are dropped, oldest first. It reports whether e was stored.
func (r *historyRepository) Add(ctx context.Context, e HistoryEntry) (_ bool, err error) {
	tx, err := r.db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	rows, err := tx.QueryContext(ctx, "SELECT "+historyColumns+" FROM history")
	if err != nil {
		return false, fmt.Errorf("query history: %w", err)
	}
	duplicate := false
	for rows.Next() && !duplicate {
		existing, scanErr := scanHistoryEntry(rows)
		if scanErr != nil {
			return false, errors.Join(scanErr, rows.Close())
		}
		duplicate = isDuplicate(existing, e)
	}
	if err = errors.Join(rows.Err(), rows.Close()); err != nil {
		return false, fmt.Errorf("iterate history: %w", err)
	}
	if duplicate {
		return false, tx.Rollback()
	}

	results, err := json.Marshal(e.Results)
	if err != nil {
		return false, fmt.Errorf("encode results: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO history (id, created_at, mode, base_weight, sets, reps, scheme_id, results)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.CreatedAt.UTC().Format(timestampFormat), string(e.Mode), e.BaseWeight, e.Sets, e.Reps,
		e.SchemeID, string(results)); err != nil {
		return false, errors.Wrap(err, "insert history entry", slog.String("id", e.ID.String()))
	}
	if _, err = tx.ExecContext(ctx, `
		DELETE FROM history
		WHERE seq NOT IN (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`, MaxHistory); err != nil {
		return false, fmt.Errorf("trim history: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit history entry: %w", err)
	}
	return true, nil
}

// Clear deletes every entry.
func (r *historyRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ReadWrite.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}
