package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ADDR", "APP_ENV", "STORE_DRIVER", "DATABASE_URL",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
		"CORS_ALLOWED_ORIGINS", "MAX_BODY_SIZE",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_WINDOW_MAX", "RATE_LIMIT_WINDOW",
		"REDIS_URL", "REDIS_ADDR", "REDIS_USER", "REDIS_PASSWORD",
		"TLS_CERT_FILE", "TLS_KEY_FILE", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/books")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Addr != ":3000" || c.StoreDriver != DriverPostgres {
		t.Errorf("unexpected defaults: addr=%q driver=%q", c.Addr, c.StoreDriver)
	}
	if c.MaxOpenConns != 10 || c.MaxIdleConns != 10 || c.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("unexpected pool defaults: %+v", c)
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin, got %v", c.AllowedOrigins)
	}
	if c.MaxBodySize != 1<<20 {
		t.Errorf("expected 1MiB body limit, got %d", c.MaxBodySize)
	}
	if c.RateLimitRPS != 5 || c.RateLimitBurst != 20 || c.WindowMax != 3000 || c.Window != time.Hour {
		t.Errorf("unexpected rate limit defaults: %+v", c)
	}
	if c.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown, got %s", c.ShutdownTimeout)
	}
	if c.RedisEnabled() || c.TLSEnabled() || c.Production() {
		t.Error("redis, TLS and production should be off by default")
	}
}

func TestLoad_PostgresNeedsURL(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoad_MemoryDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "Memory")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.StoreDriver != DriverMemory {
		t.Errorf("expected memory driver, got %q", c.StoreDriver)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("APP_ADDR", ":8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.example , ,http://b.example")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_WINDOW", "15m")
	t.Setenv("REDIS_URL", "rediss://default:pw@cache:6380")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Addr != ":8080" {
		t.Errorf("addr: got %q", c.Addr)
	}
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[1] != "http://b.example" {
		t.Errorf("origins: got %v", c.AllowedOrigins)
	}
	if c.RateLimitRPS != 0.5 || c.Window != 15*time.Minute {
		t.Errorf("rate limit: got %v / %s", c.RateLimitRPS, c.Window)
	}
	if !c.RedisEnabled() {
		t.Error("expected redis enabled")
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver": {"STORE_DRIVER": "sqlite"},
		"bad int":        {"DB_MAX_OPEN_CONNS": "ten"},
		"zero int":       {"RATE_LIMIT_BURST": "0"},
		"negative float": {"RATE_LIMIT_RPS": "-1"},
		"bad duration":   {"SHUTDOWN_TIMEOUT": "soon"},
		"zero duration":  {"RATE_LIMIT_WINDOW": "0s"},
		"half TLS":       {"TLS_CERT_FILE": "cert.pem"},
		"no origins":     {"CORS_ALLOWED_ORIGINS": " , "},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("STORE_DRIVER", "memory")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", env)
			}
		})
	}
}

func TestHardeningWarnings(t *testing.T) {
	dev := Config{AppEnv: "development", MaxOpenConns: 10, MaxIdleConns: 10, AllowedOrigins: []string{"*"}}
	if w := HardeningWarnings(dev); len(w) != 0 {
		t.Errorf("expected no warnings in development, got %v", w)
	}

	prod := Config{
		AppEnv:         "production",
		StoreDriver:    DriverMemory,
		MaxOpenConns:   5,
		MaxIdleConns:   10,
		AllowedOrigins: []string{"*"},
		RedisAddr:      "cache:6379",
	}
	// idle>open, memory, wildcard CORS, no TLS, redis without auth
	if w := HardeningWarnings(prod); len(w) != 5 {
		t.Errorf("expected 5 warnings, got %d: %v", len(w), w)
	}
}
