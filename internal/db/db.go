package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "zapp.db"

// Option customises Open.
type Option func(*options)

type options struct {
	log           *zap.Logger
	skipMigration bool
}

// WithLogger reports applied migrations to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithoutMigrations opens the database without applying pending migrations.
// The migrate command uses it so a rollback does not re-apply what it reverts.
func WithoutMigrations() Option {
	return func(o *options) { o.skipMigration = true }
}

// Open opens (or creates) the SQLite document store and applies pending migrations
// from internal/db/migrations (0001_name.up.sql / 0001_name.down.sql).
func Open(path string, opts ...Option) (*sql.DB, error) {
	o := options{log: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if path == "" {
		path = DefaultPath
	}
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	// WAL is not available for in-memory databases.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	for _, pragma := range []string{`PRAGMA busy_timeout=5000`, `PRAGMA foreign_keys=ON`} {
		if _, err := d.Exec(pragma); err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	if o.skipMigration {
		return d, nil
	}
	if err := applyMigrations(d, o.log); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}
