// Package database stores authored quest content in SQLite or PostgreSQL.
// It holds definitions only; player quest state is never written here.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/questkeeper/internal/logger"
)

// Database wraps the SQL connection and the dialect used to talk to it.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens a SQLite or PostgreSQL database and creates the schema.
func OpenWithConfig(cfg Config) (*Database, error) {
	var dialect Dialect
	var dsn string

	switch cfg.Driver {
	case "postgres":
		dialect = NewDialect(DialectPostgres)
		dsn = cfg.Postgres.DSN()
	case "sqlite", "":
		dialect = NewDialect(DialectSQLite)
		dsn = cfg.SQLitePath

		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Driver == "postgres" {
		if cfg.Postgres.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		}
		if cfg.Postgres.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		}
		if cfg.Postgres.ConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		}
	} else {
		// PRAGMAs are per connection
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{
		db:      db,
		dialect: dialect,
		qb:      NewQueryBuilder(dialect),
	}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Quest content database opened", "driver", dialect.DriverName())
	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the SQL dialect in use
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the schema if it doesn't exist. The DDL is portable between SQLite and PostgreSQL.
func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS quests (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			quest_type TEXT NOT NULL DEFAULT 'kill',
			giver_npc TEXT NOT NULL DEFAULT '',
			turn_in_npc TEXT NOT NULL DEFAULT '',
			repeatable INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS quest_objectives (
			quest_id TEXT NOT NULL REFERENCES quests(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			objective_id TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			target TEXT NOT NULL,
			target_name TEXT NOT NULL DEFAULT '',
			amount INTEGER NOT NULL DEFAULT 1,
			repeat_objective INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (quest_id, position)
		)`,

		`CREATE TABLE IF NOT EXISTS quest_rewards (
			quest_id TEXT NOT NULL REFERENCES quests(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL DEFAULT '',
			amount INTEGER NOT NULL DEFAULT 0,
			first_time_only INTEGER NOT NULL DEFAULT 0,
			repeatable_reward INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (quest_id, position)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_quests_giver ON quests(giver_npc)`,
	}

	for _, migration := range migrations {
		if _, err := d.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
