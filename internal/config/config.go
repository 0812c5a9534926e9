// Package config reads service settings from the environment. Callers load
// .env files first; values already present in the environment win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Addr   string
	AppEnv string

	StoreDriver     string
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	AllowedOrigins []string
	MaxBodySize    int64

	RateLimitRPS   float64
	RateLimitBurst int
	WindowMax      int
	Window         time.Duration
	RedisURL       string
	RedisAddr      string
	RedisUser      string
	RedisPassword  string

	TLSCertFile     string
	TLSKeyFile      string
	ShutdownTimeout time.Duration
}

// RedisEnabled reports whether any redis connection setting was given.
func (c Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisAddr != ""
}

func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load parses the environment and fails fast on bad values.
func Load() (Config, error) {
	var (
		c   Config
		err error
	)

	c.Addr = envString("APP_ADDR", ":3000")
	c.AppEnv = envString("APP_ENV", "development")

	c.StoreDriver = strings.ToLower(envString("STORE_DRIVER", DriverPostgres))
	switch c.StoreDriver {
	case DriverPostgres:
		c.DatabaseURL = os.Getenv("DATABASE_URL")
		if c.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL must be set when STORE_DRIVER=postgres")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver)
	}

	if c.MaxOpenConns, err = envPositiveInt("DB_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}
	if c.MaxIdleConns, err = envPositiveInt("DB_MAX_IDLE_CONNS", 10); err != nil {
		return Config{}, fmt.Errorf("DB_MAX_IDLE_CONNS: %w", err)
	}
	if c.ConnMaxLifetime, err = envDuration("DB_CONN_MAX_LIFETIME", "30m"); err != nil {
		return Config{}, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}

	c.AllowedOrigins = splitList(envString("CORS_ALLOWED_ORIGINS", "*"))
	if len(c.AllowedOrigins) == 0 {
		return Config{}, errors.New("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	maxBody, err := envPositiveInt("MAX_BODY_SIZE", 1<<20)
	if err != nil {
		return Config{}, fmt.Errorf("MAX_BODY_SIZE: %w", err)
	}
	c.MaxBodySize = int64(maxBody)

	if c.RateLimitRPS, err = envPositiveFloat("RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if c.RateLimitBurst, err = envPositiveInt("RATE_LIMIT_BURST", 20); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}
	if c.WindowMax, err = envPositiveInt("RATE_LIMIT_WINDOW_MAX", 3000); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_WINDOW_MAX: %w", err)
	}
	if c.Window, err = envDuration("RATE_LIMIT_WINDOW", "1h"); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_WINDOW: %w", err)
	}

	c.RedisURL = os.Getenv("REDIS_URL")
	c.RedisAddr = os.Getenv("REDIS_ADDR")
	c.RedisUser = os.Getenv("REDIS_USER")
	c.RedisPassword = os.Getenv("REDIS_PASSWORD")

	c.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	c.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return Config{}, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	if c.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	return c, nil
}

// HardeningWarnings returns non-fatal warnings worth logging on startup.
func HardeningWarnings(c Config) []string {
	var warns []string

	if c.MaxIdleConns > c.MaxOpenConns {
		warns = append(warns, fmt.Sprintf("DB_MAX_IDLE_CONNS=%d exceeds DB_MAX_OPEN_CONNS=%d; idle pool is capped at the open limit", c.MaxIdleConns, c.MaxOpenConns))
	}

	if !c.Production() {
		return warns
	}
	if c.StoreDriver == DriverMemory {
		warns = append(warns, "STORE_DRIVER=memory in production; books are lost on restart")
	}
	if len(c.AllowedOrigins) == 1 && c.AllowedOrigins[0] == "*" {
		warns = append(warns, "CORS_ALLOWED_ORIGINS=* in production; consider an explicit allow list")
	}
	if !c.TLSEnabled() {
		warns = append(warns, "TLS_CERT_FILE/TLS_KEY_FILE not set; serving plain HTTP")
	}
	if !c.RedisEnabled() {
		warns = append(warns, "no redis configured; rate limits are per process")
	}
	if strings.HasPrefix(c.RedisURL, "redis://") {
		warns = append(warns, "REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
	}
	if c.RedisAddr != "" && (c.RedisUser == "" || c.RedisPassword == "") {
		warns = append(warns, "REDIS_ADDR provided without REDIS_USER/REDIS_PASSWORD; require auth in production")
	}
	return warns
}

// --- helpers ---

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key, def string) (time.Duration, error) {
	s := envString(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func envPositiveInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("not a number: %v", err)
	}
	if n < 1 {
		return 0, errors.New("must be >= 1")
	}
	return n, nil
}

func envPositiveFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %v", err)
	}
	if f <= 0 {
		return 0, errors.New("must be > 0")
	}
	return f, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
