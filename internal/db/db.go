package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

const userSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	login TEXT NOT NULL UNIQUE CHECK (length(login) BETWEEN 1 AND 100),
	password_hash TEXT NOT NULL
);`

const taskSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL CHECK (length(text) BETWEEN 1 AND 200),
	done BOOLEAN NOT NULL DEFAULT 0,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks(owner_id);`

// Connect opens the SQLite database at dbPath with foreign keys enforced.
// SQLite serialises writers anyway, so the pool is pinned to a single
// connection to keep transactions from tripping over SQLITE_BUSY.
func Connect(dbPath string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	pool, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	pool.SetMaxOpenConns(1)

	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database at %s: %w", dbPath, err)
	}
	slog.Info("Connected to database", "db.path", dbPath)
	return pool, nil
}

// InitializeDB creates the users and tasks tables if they do not exist yet.
func InitializeDB(ctx context.Context, DB *sqlx.DB) error {
	if _, err := DB.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := DB.ExecContext(ctx, userSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	if _, err := DB.ExecContext(ctx, taskSchema); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}

	slog.InfoContext(ctx, "DB connection initialized and schema verified.")
	return nil
}

// Open connects to dbPath and makes sure the schema exists.
func Open(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	DB, err := Connect(dbPath)
	if err != nil {
		return nil, err
	}
	if err := InitializeDB(ctx, DB); err != nil {
		DB.Close()
		return nil, err
	}
	return DB, nil
}
