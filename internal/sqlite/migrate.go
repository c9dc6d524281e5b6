package sqlite

import (
	"context"
	"embed"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/myrjola/liftcalc/internal/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

// migrate applies the pending migrations in migrations/ on the read-write connection.
//
// Migrations are numbered NNNNNN_name.up.sql and NNNNNN_name.down.sql. Applied versions are tracked in the
// schema_migrations table.
func (db *Database) migrate(ctx context.Context) error {
	start := time.Now()

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "open embedded migrations")
	}
	defer func() {
		_ = src.Close()
	}()

	driver, err := migratesqlite.WithInstance(db.ReadWrite, &migratesqlite.Config{
		MigrationsTable: migratesqlite.DefaultMigrationsTable,
		DatabaseName:    "liftcalc",
		NoTxWrap:        false,
	})
	if err != nil {
		return errors.Wrap(err, "create migration driver")
	}

	// m is not closed because closing it closes db.ReadWrite.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}

	from, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return errors.Wrap(err, "read schema version")
	}
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations", slog.Uint64("from", uint64(from)))
	}
	to, dirty, err := m.Version()
	if err != nil {
		return errors.Wrap(err, "read migrated schema version")
	}
	if dirty {
		return errors.New("schema is dirty after migration", slog.Uint64("version", uint64(to)))
	}

	if from != to {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated schema",
			slog.Uint64("from", uint64(from)), slog.Uint64("to", uint64(to)),
			slog.Duration("duration", time.Since(start)))
	}
	return nil
}

// SchemaVersion returns the latest applied migration.
func (db *Database) SchemaVersion(ctx context.Context) (uint, error) {
	var version uint
	err := db.ReadOnly.QueryRowContext(ctx,
		"SELECT version FROM "+migratesqlite.DefaultMigrationsTable+" LIMIT 1").Scan(&version)
	if err != nil {
		return 0, errors.Wrap(err, "query schema version")
	}
	return version, nil
}
