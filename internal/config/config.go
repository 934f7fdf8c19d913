package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	Driver          string // "pgx" | "sqlite3"
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	AcquireTimeout  time.Duration
	PingTimeout     time.Duration
}

type Redis struct {
	URL      string // full redis:// or rediss:// URL, wins over the split fields
	Addr     string
	User     string
	Password string
}

// Enabled reports whether any Redis connection settings were given.
func (r Redis) Enabled() bool { return r.URL != "" || r.Addr != "" }

type Cache struct {
	TTL     time.Duration
	Timeout time.Duration
}

type RateLimit struct {
	PerSecond float64 // 0 disables the limiter
	Burst     int
}

type Config struct {
	AppEnv          string
	Port            string
	LogLevel        string
	TLSCertFile     string
	TLSKeyFile      string
	ShutdownTimeout time.Duration
	MaxBodySize     int64
	AllowedOrigins  []string

	DB        DB
	Redis     Redis
	Cache     Cache
	RateLimit RateLimit
}

// Load reads envFiles (missing files are ignored) and then the process
// environment. Values already set in the environment are never overridden.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var errs []error
	dur := func(key, def string) time.Duration {
		d, err := envDuration(key, def)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return d
	}
	num := func(key string, def int) int {
		n, err := envInt(key, def)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return n
	}

	c := Config{
		AppEnv:          envOr("APP_ENV", "development"),
		Port:            envOr("PORT", "3000"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		TLSCertFile:     os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:      os.Getenv("TLS_KEY_FILE"),
		ShutdownTimeout: dur("SHUTDOWN_TIMEOUT", "10s"),
		MaxBodySize:     int64(num("MAX_BODY_SIZE", 1<<20)),
		AllowedOrigins:  splitCSV(envOr("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		DB: DB{
			Driver:          envOr("DB_DRIVER", "pgx"),
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    num("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    num("DB_MAX_IDLE_CONNS", 10),
			ConnMaxIdleTime: dur("DB_CONN_MAX_IDLE_TIME", "5m"),
			ConnMaxLifetime: dur("DB_CONN_MAX_LIFETIME", "30m"),
			AcquireTimeout:  dur("DB_ACQUIRE_TIMEOUT", "2s"),
			PingTimeout:     dur("DB_PING_TIMEOUT", "3s"),
		},
		Redis: Redis{
			URL:      os.Getenv("REDIS_URL"),
			Addr:     os.Getenv("REDIS_ADDR"),
			User:     os.Getenv("REDIS_USER"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Cache: Cache{
			TTL:     dur("CACHE_TTL", "5m"),
			Timeout: time.Duration(num("CACHE_TIMEOUT_MS", 150)) * time.Millisecond,
		},
		RateLimit: RateLimit{
			Burst: num("RATE_LIMIT_BURST", 20),
		},
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS: invalid rate %q", v))
		}
		c.RateLimit.PerSecond = f
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// Validate fails fast on configuration the server cannot run with.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case "pgx", "sqlite3":
	default:
		return fmt.Errorf("DB_DRIVER must be pgx or sqlite3, got %q", c.DB.Driver)
	}
	if c.DB.URL == "" {
		return errors.New("DATABASE_URL not set")
	}
	if c.DB.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return errors.New("DB_MAX_IDLE_CONNS must be <= DB_MAX_OPEN_CONNS")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.Redis.URL == "" && c.Redis.Addr != "" && c.Redis.Password == "" && c.IsProduction() {
		return errors.New("REDIS_ADDR without REDIS_PASSWORD is not allowed in production")
	}
	if c.MaxBodySize <= 0 {
		return errors.New("MAX_BODY_SIZE must be > 0")
	}
	return nil
}

func (c Config) IsProduction() bool { return strings.EqualFold(c.AppEnv, "production") }

// Addr is the listen address for http.Server.
func (c Config) Addr() string { return ":" + strings.TrimPrefix(c.Port, ":") }

// HardeningWarnings returns non-fatal warnings worth logging on startup.
func (c Config) HardeningWarnings() []string {
	var warns []string
	if c.IsProduction() {
		if c.TLSCertFile == "" {
			warns = append(warns, "TLS_CERT_FILE not set; serving plain HTTP in production")
		}
		if strings.HasPrefix(c.Redis.URL, "redis://") {
			warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if c.DB.Driver == "sqlite3" {
			warns = append(warns, "DB_DRIVER=sqlite3 in production; the pool is limited by SQLite's single writer")
		}
	}
	if c.DB.AcquireTimeout <= 0 {
		warns = append(warns, "DB_ACQUIRE_TIMEOUT <= 0; requests wait for a free connection until the client gives up")
	}
	if c.RateLimit.PerSecond > 0 && !c.Redis.Enabled() {
		warns = append(warns, "RATE_LIMIT_RPS set without Redis; rate limiting is disabled")
	}
	return warns
}

// --- helpers ---

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key, def string) (time.Duration, error) {
	s := envOr(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	return n, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
