package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/lib")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.DB.Driver != "pgx" || c.DB.MaxOpenConns != 10 || c.DB.AcquireTimeout != 2*time.Second {
		t.Fatalf("unexpected db defaults: %+v", c.DB)
	}
	if c.Addr() != ":3000" {
		t.Fatalf("want :3000, got %s", c.Addr())
	}
	if c.Redis.Enabled() {
		t.Fatal("redis must be disabled without settings")
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "x")
	cases := map[string]string{
		"DB_DRIVER":          "mysql",
		"DB_ACQUIRE_TIMEOUT": "soon",
		"DB_MAX_OPEN_CONNS":  "ten",
		"RATE_LIMIT_RPS":     "-1",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s: expected error", k, v)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DB_DRIVER=sqlite3\nDATABASE_URL=file:test.db\nPORT=8081\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set.
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("DATABASE_URL")

	c, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.DB.Driver != "sqlite3" || c.DB.URL != "file:test.db" {
		t.Fatalf("env file not applied: %+v", c.DB)
	}
	if c.Port != "9000" {
		t.Fatalf("process env must win, got %s", c.Port)
	}
}

func TestHardeningWarnings(t *testing.T) {
	c := Config{AppEnv: "production", DB: DB{Driver: "sqlite3"}, RateLimit: RateLimit{PerSecond: 5}}
	if got := c.HardeningWarnings(); len(got) < 3 {
		t.Fatalf("want tls, sqlite and rate limit warnings, got %v", got)
	}
}
