package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/liftcalc/internal/errors"
)

// optimizeInterval is how often the query planner statistics are refreshed.
const optimizeInterval = time.Hour

// startDatabaseOptimizer runs PRAGMA optimize until ctx is done. See https://www.sqlite.org/pragma.html#pragma_optimize.
func (db *Database) startDatabaseOptimizer(ctx context.Context) {
	// 0x10002 also analyzes tables that have never been analyzed, recommended for long-lived connections.
	db.optimize(ctx, "PRAGMA optimize = 0x10002;")
	ticker := time.NewTicker(optimizeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			db.optimize(ctx, "PRAGMA optimize;")
		}
	}
}

func (db *Database) optimize(ctx context.Context, pragma string) {
	start := time.Now()
	if _, err := db.ReadWrite.ExecContext(ctx, pragma); err != nil {
		if ctx.Err() != nil {
			return
		}
		db.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database",
			errors.SlogError(errors.Wrap(err, "optimize database", slog.String("pragma", pragma))))
		return
	}
	if ctx.Err() != nil {
		return
	}
	db.logger.LogAttrs(ctx, slog.LevelDebug, "optimized database", slog.Duration("duration", time.Since(start)))
}
