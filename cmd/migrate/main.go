package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kvbuilders/site/internal/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply pending migrations
  down        roll back the most recently applied migration
  fresh       roll back every applied migration, then apply all`)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	logging.Setup(os.Getenv("LOG_LEVEL"))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://kv:kv@localhost:5432/kv?sslmode=disable"
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	migrationDir := findMigrationDir()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		runUp(ctx, pool, migrationDir)
	case "down":
		runDown(ctx, pool, migrationDir, 1)
	case "fresh":
		runDown(ctx, pool, migrationDir, -1)
		runUp(ctx, pool, migrationDir)
	default:
		usage()
	}
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

// collectFiles returns the migration names (without suffix) in dir that have
// a file ending in suffix, sorted ascending.
func collectFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, strings.TrimSuffix(e.Name(), suffix))
		}
	}
	sort.Strings(names)
	return names, nil
}

// pending returns the names not in applied, keeping order.
func pending(names []string, applied map[string]bool) []string {
	var out []string
	for _, n := range names {
		if !applied[n] {
			out = append(out, n)
		}
	}
	return out
}

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		logging.Fatal("create schema_migrations failed", "error", err)
	}
}

// appliedMigrations returns the applied names, newest first.
func appliedMigrations(ctx context.Context, pool *pgxpool.Pool) []string {
	rows, err := pool.Query(ctx, "SELECT name FROM schema_migrations ORDER BY name DESC")
	if err != nil {
		logging.Fatal("read schema_migrations failed", "error", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			logging.Fatal("scan schema_migrations failed", "error", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		logging.Fatal("read schema_migrations failed", "error", err)
	}
	return names
}

func runUp(ctx context.Context, pool *pgxpool.Pool, dir string) {
	ensureSchemaMigrations(ctx, pool)

	names, err := collectFiles(dir, ".up.sql")
	if err != nil {
		logging.Fatal("read migrations dir failed", "error", err)
	}
	applied := map[string]bool{}
	for _, n := range appliedMigrations(ctx, pool) {
		applied[n] = true
	}

	todo := pending(names, applied)
	for _, name := range todo {
		sql, err := os.ReadFile(filepath.Join(dir, name+".up.sql"))
		if err != nil {
			logging.Fatal("read migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logging.Fatal("migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			logging.Fatal("record migration failed", "migration", name, "error", err)
		}
		slog.Info("migration applied", "migration", name)
	}

	if len(todo) == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", len(todo))
	}
}

// runDown rolls back up to n applied migrations, newest first. n < 0 means all.
func runDown(ctx context.Context, pool *pgxpool.Pool, dir string, n int) {
	ensureSchemaMigrations(ctx, pool)

	applied := appliedMigrations(ctx, pool)
	if n >= 0 && n < len(applied) {
		applied = applied[:n]
	}
	for _, name := range applied {
		sql, err := os.ReadFile(filepath.Join(dir, name+".down.sql"))
		if err != nil {
			logging.Fatal("read rollback failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logging.Fatal("rollback failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, "DELETE FROM schema_migrations WHERE name = $1", name); err != nil {
			logging.Fatal("unrecord migration failed", "migration", name, "error", err)
		}
		slog.Info("migration rolled back", "migration", name)
	}
	if len(applied) == 0 {
		slog.Info("nothing to roll back")
	}
}
