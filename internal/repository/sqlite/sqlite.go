// Package sqlite implements the repository interfaces on SQLite.
//
// WHY modernc.org/sqlite?
// It's a pure-Go translation of SQLite — no CGo, no C toolchain, trivial
// cross-compilation. The driver registers itself with database/sql under
// the name "sqlite" via its init function (hence the blank import).
//
// The connection string is just a file path ("data/jobtrack.db") or
// ":memory:" for tests.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB owns the sql.DB connection pool and hands out the per-entity stores.
//
// Users and Jobs are separate types on purpose: both repository interfaces
// declare a Create and a GetByID, and Go methods don't overload — one
// receiver can't implement both. The two stores share the pool, so there is
// still exactly one connection pool per process.
type DB struct {
	conn  *sql.DB
	users *UserStore
	jobs  *JobStore
}

// UserStore implements repository.UserRepository.
type UserStore struct {
	conn *sql.DB
}

// JobStore implements repository.JobRepository.
type JobStore struct {
	conn *sql.DB
}

// New opens the database, applies pragmas, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection: if the pool opened a
	// second connection it would see a fresh, empty database. Pin the pool
	// to one connection so tests all talk to the same store.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open doesn't connect; Ping forces the first real connection so a
	// bad path or permissions problem surfaces at startup, not on the
	// first request.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — needed for a web
	// server where requests hit the DB concurrently.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; jobs.created_by references
	// users(id), so turn them on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{
		conn:  conn,
		users: &UserStore{conn: conn},
		jobs:  &JobStore{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserStore {
	return db.users
}

// Jobs returns the job repository backed by this database.
func (db *DB) Jobs() *JobStore {
	return db.jobs
}

// Close closes the connection pool. Callers defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe to run on every startup.
//
// The UNIQUE index on users.email is the enforcement point for
// one-account-per-email: the INSERT fails atomically on collision, with no
// check-then-insert race. email is nullable rather than NOT NULL because
// GitHub accounts may hide their email; SQLite's UNIQUE ignores NULLs, so
// any number of hidden-email accounts coexist while real addresses still
// collide. Password accounts always have an email — the service validates
// presence before the row ever gets here. github_id is likewise nullable
// (password accounts have none) but unique when present.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER UNIQUE,
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id         TEXT PRIMARY KEY,
			company    TEXT NOT NULL,
			position   TEXT NOT NULL,
			created_by TEXT NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_created_by ON jobs(created_by);
	`)
	if err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}

	return nil
}
