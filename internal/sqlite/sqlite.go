// Package sqlite opens the application database and keeps its schema up to date.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/myrjola/liftcalc/internal/errors"
)

// Database holds a single writer connection and a pool of readers to the same SQLite database.
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase connects to the database at url, applies pending migrations, and starts the hourly optimizer which
// stops when ctx is cancelled.
//
// Pass ":memory:" for a private in-memory database, handy in tests.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err = db.migrate(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate: %w", err), db.Close())
	}

	go db.startDatabaseOptimizer(ctx)

	return db, nil
}

//nolint:gochecknoglobals // the driver may only be registered once per process.
var registerDriverOnce sync.Once

const driverName = "sqlite3liftcalc"

func registerDriver() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		Extensions: nil,
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if _, err := conn.Exec(
				"PRAGMA temp_store = memory;"+
					"PRAGMA mmap_size = 268435456;", nil); err != nil {
				return fmt.Errorf("exec connection pragmas: %w", err)
			}
			return nil
		},
	})
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	// A shared cache lets the reader and writer pools see the same in-memory database. The random name keeps
	// databases of parallel tests apart. See https://www.sqlite.org/inmemorydb.html.
	memoryParams := ""
	if strings.Contains(url, ":memory:") {
		url = "liftcalc-" + rand.Text()
		memoryParams = "&mode=memory&cache=shared"
	}
	// Parameters starting with an underscore are interpreted by github.com/mattn/go-sqlite3, the rest are SQLite
	// URI parameters.
	params := strings.Join([]string{
		"_loc=auto",
		"_journal_mode=wal",
		"_busy_timeout=5000",
		"_synchronous=normal",
		"_foreign_keys=on",
	}, "&")
	readWriteDSN := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s%s", url, params, memoryParams)
	readOnlyDSN := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s%s", url, params, memoryParams)

	registerDriverOnce.Do(registerDriver)

	readWrite, err := sql.Open(driverName, readWriteDSN)
	if err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}
	// SQLite allows one writer at a time so more connections would only wait on each other.
	readWrite.SetMaxOpenConns(1)
	readWrite.SetMaxIdleConns(1)
	readWrite.SetConnMaxLifetime(time.Hour)
	readWrite.SetConnMaxIdleTime(time.Hour)
	// The pool is lazy. Ping creates the database file before the read-only pool tries to open it.
	if err = readWrite.PingContext(ctx); err != nil {
		return nil, errors.Join(errors.Wrap(err, "ping read-write database"), readWrite.Close())
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "opened database", slog.String("sqlDsn", readWriteDSN))

	readOnly, err := sql.Open(driverName, readOnlyDSN)
	if err != nil {
		return nil, errors.Join(errors.Wrap(err, "open read-only database"), readWrite.Close())
	}
	const maxReaders = 8
	readOnly.SetMaxOpenConns(maxReaders)
	readOnly.SetMaxIdleConns(maxReaders)
	readOnly.SetConnMaxLifetime(time.Hour)
	readOnly.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWrite,
		ReadOnly:  readOnly,
		logger:    logger,
	}, nil
}

// Close closes both connection pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
