package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:paperdrill.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/paperdrill?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  prompt TEXT NOT NULL,
  format TEXT NOT NULL DEFAULT 'text',
  answer_rows_json TEXT NOT NULL DEFAULT '[]',
  marking_points_json TEXT NOT NULL DEFAULT '[]',
  answer_requirement TEXT NOT NULL DEFAULT '',
  total_alternatives INTEGER NOT NULL DEFAULT 0,
  max_marks INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  question_ids_json TEXT NOT NULL,
  status TEXT NOT NULL,
  total_awarded INTEGER NOT NULL DEFAULT 0,
  total_max INTEGER NOT NULL DEFAULT 0,
  started_at INTEGER NOT NULL,
  finished_at INTEGER
);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  question_id TEXT NOT NULL,
  answer_text TEXT NOT NULL,
  awarded INTEGER NOT NULL DEFAULT 0,
  max_marks INTEGER NOT NULL DEFAULT 0,
  satisfied_json TEXT NOT NULL DEFAULT '[]',
  missed_json TEXT NOT NULL DEFAULT '[]',
  needs_manual INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS event_log (
  offset_id INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,                         -- e.g., AnswerKeyRebuilt
  key TEXT NOT NULL,                         -- natural key: questionID / sessionID
  data TEXT NOT NULL,                        -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  prompt TEXT NOT NULL,
  format TEXT NOT NULL DEFAULT 'text',
  answer_rows_json TEXT NOT NULL DEFAULT '[]',
  marking_points_json TEXT NOT NULL DEFAULT '[]',
  answer_requirement TEXT NOT NULL DEFAULT '',
  total_alternatives INTEGER NOT NULL DEFAULT 0,
  max_marks INTEGER NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  question_ids_json TEXT NOT NULL,
  status TEXT NOT NULL,
  total_awarded INTEGER NOT NULL DEFAULT 0,
  total_max INTEGER NOT NULL DEFAULT 0,
  started_at BIGINT NOT NULL,
  finished_at BIGINT
);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  question_id TEXT NOT NULL,
  answer_text TEXT NOT NULL,
  awarded INTEGER NOT NULL DEFAULT 0,
  max_marks INTEGER NOT NULL DEFAULT 0,
  satisfied_json TEXT NOT NULL DEFAULT '[]',
  missed_json TEXT NOT NULL DEFAULT '[]',
  needs_manual BOOLEAN NOT NULL DEFAULT FALSE,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS event_log (
  offset_id BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
