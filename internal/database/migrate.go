package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_auth.up.sql
var authMigrationSQL string

//go:embed migrations/001_posts.up.sql
var postsMigrationSQL string

// EnsureAuthSchema creates the auth service tables if they are missing.
// The migration SQL is idempotent, so re-running it is safe.
func (db *DB) EnsureAuthSchema(ctx context.Context) error {
	return db.ensureSchema(ctx, authMigrationSQL, []string{"users", "refresh_tokens"})
}

// EnsurePostsSchema creates the posts service tables if they are missing.
func (db *DB) EnsurePostsSchema(ctx context.Context) error {
	return db.ensureSchema(ctx, postsMigrationSQL, []string{"posts"})
}

func (db *DB) ensureSchema(ctx context.Context, migrationSQL string, required []string) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasAllTables(ctx, required)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if !exists {
		slog.Info("database schema missing tables; applying migration")
		if _, err := db.Pool.Exec(ctx, migrationSQL); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}

		exists, err = db.hasAllTables(ctx, required)
		if err != nil {
			return fmt.Errorf("re-check tables after migration: %w", err)
		}

		if !exists {
			return fmt.Errorf("schema initialization incomplete: required tables are still missing")
		}
	}

	slog.Info("database schema ensured", "tables", required)
	return nil
}

func (db *DB) hasAllTables(ctx context.Context, required []string) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, required).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(required), nil
}
