package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mw "github.com/5w1tchy/book-catalog/internal/api/middlewares"
	"github.com/5w1tchy/book-catalog/internal/api/router"
	"github.com/5w1tchy/book-catalog/internal/config"
	"github.com/5w1tchy/book-catalog/internal/repository/sqlconnect"
	storebooks "github.com/5w1tchy/book-catalog/internal/store/books"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	for _, warn := range config.HardeningWarnings(cfg) {
		log.Printf("[config] WARNING: %s", warn)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer store.Close()

	limiters, closeLimiters, err := rateLimiters(ctx, cfg)
	if err != nil {
		log.Fatalf("rate limiter: %v", err)
	}
	defer closeLimiters()

	chain := []mw.Middleware{
		mw.RequestID,
		mw.AccessLog,
		mw.Recovery,
		mw.Cors(cfg.AllowedOrigins),
		mw.ResponseTime,
		mw.SecurityHeaders(cfg.Production()),
		mw.BodySizeLimit(cfg.MaxBodySize),
	}
	chain = append(chain, limiters...)
	chain = append(chain, mw.Compression)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mw.ApplyMiddleware(router.Router(store), chain...),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		TLSConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Println("Server is running on", cfg.Addr, "store:", cfg.StoreDriver)
		if cfg.TLSEnabled() {
			errCh <- server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln("Error starting server:", err)
		}
	case <-ctx.Done():
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
		}
	}
}

func openStore(ctx context.Context, cfg config.Config) (storebooks.Store, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Println("using in-memory store")
		return storebooks.NewMemStore(), nil
	}

	db, err := sqlconnect.ConnectDB(ctx, cfg.DatabaseURL, sqlconnect.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := storebooks.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	fmt.Println("Connected to PostgreSQL")
	return storebooks.NewSQLStore(db), nil
}

// rateLimiters returns redis-backed limiters when redis is configured and a
// per-process token bucket otherwise.
func rateLimiters(ctx context.Context, cfg config.Config) ([]mw.Middleware, func(), error) {
	if !cfg.RedisEnabled() {
		local := mw.NewLocalRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, mw.PerIPKey("tb"))
		return []mw.Middleware{local.Middleware}, func() {}, nil
	}

	rdb, err := newRedisClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Fail fast if Redis isn't reachable
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("redis connection failed: %w", err)
	}
	fmt.Println("Connected to Redis")

	tb := mw.NewRedisTokenBucket(rdb, cfg.RateLimitRPS, cfg.RateLimitBurst, mw.PerIPKey("tb"))
	sw := mw.NewRedisSlidingWindow(rdb, cfg.WindowMax, cfg.Window, mw.PerIPKey("sw"))
	return []mw.Middleware{tb.Middleware, sw.Middleware}, func() { rdb.Close() }, nil
}

func newRedisClient(cfg config.Config) (*redis.Client, error) {
	if cfg.RedisURL != "" {
		// e.g. rediss://default:<token>@host:port
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		return redis.NewClient(opt), nil
	}

	opt := &redis.Options{
		Addr:         cfg.RedisAddr,
		Username:     cfg.RedisUser,
		Password:     cfg.RedisPassword,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	// managed redis with auth is TLS-only
	if cfg.RedisPassword != "" {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opt), nil
}
