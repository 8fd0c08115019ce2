package repo_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/xxxsen/sportmate/internal/config"
	"github.com/xxxsen/sportmate/internal/db"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     5432,
		User:     envOr("TEST_DB_USER", "sportmate"),
		Password: envOr("TEST_DB_PASSWORD", "sportmate_pass"),
		DBName:   envOr("TEST_DB_NAME", "sportmate_test"),
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(context.Background(), conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	for _, table := range []string{"users", "otps", "admins"} {
		if _, err := conn.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
