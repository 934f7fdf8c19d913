package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	mw "github.com/5w1tchy/libapi/internal/api/middlewares"
	"github.com/5w1tchy/libapi/internal/api/router"
	"github.com/5w1tchy/libapi/internal/cache"
	"github.com/5w1tchy/libapi/internal/config"
	"github.com/5w1tchy/libapi/internal/repository/sqlconnect"
	"github.com/5w1tchy/libapi/internal/store/books"
	"github.com/5w1tchy/libapi/internal/store/crud"
	"github.com/5w1tchy/libapi/internal/store/dbx"
	"github.com/5w1tchy/libapi/internal/store/employees"
	"github.com/5w1tchy/libapi/internal/store/members"
)

func newServeCmd(envFile *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "create missing tables before serving")
	return cmd
}

func serve(parent context.Context, cfg config.Config, migrate bool) error {
	log := newLogger(cfg)
	for _, w := range cfg.HardeningWarnings() {
		log.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlconnect.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Str("driver", cfg.DB.Driver).Int("max_open", cfg.DB.MaxOpenConns).Msg("database connected")

	if migrate {
		if err := dbx.Migrate(ctx, db); err != nil {
			return err
		}
	}

	rdb, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		// Redis only backs the cache and the limiter; run without both.
		log.Warn().Err(err).Msg("redis unavailable; cache and rate limiting disabled")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	opts := []crud.Option{
		crud.WithAcquireTimeout(cfg.DB.AcquireTimeout),
		crud.WithLogger(log),
	}
	if rdb != nil {
		opts = append(opts, crud.WithCache(cache.New(rdb, cfg.Cache.TTL, cfg.Cache.Timeout, log)))
	}

	api := router.Router(db, router.Stores{
		Books:     books.New(db, opts...),
		Employees: employees.New(db, opts...),
		Members:   members.New(db, opts...),
	})

	var limiter mw.Middleware
	if rdb != nil && cfg.RateLimit.PerSecond > 0 {
		limiter = mw.NewRedisTokenBucket(rdb, cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, mw.PerIPKey("libapi:rl")).Middleware
	}

	handler := mw.Apply(api,
		mw.RequestID,
		mw.AccessLog(log),
		mw.Recovery,
		mw.ResponseTime,
		mw.SecurityHeaders(cfg.IsProduction()),
		mw.CORS(cfg.AllowedOrigins),
		limiter,
		mw.BodySizeLimit(cfg.MaxBodySize),
		mw.Compression,
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          stdLogger(log),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Bool("tls", cfg.TLSCertFile != "").Msg("server listening")
		var err error
		if cfg.TLSCertFile != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// connectRedis returns (nil, nil) when Redis is not configured.
func connectRedis(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	var rdb *redis.Client
	if cfg.URL != "" {
		opt, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opt.DialTimeout = 2 * time.Second
		opt.ReadTimeout = 500 * time.Millisecond
		opt.WriteTimeout = 500 * time.Millisecond
		rdb = redis.NewClient(opt)
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Username:     cfg.User,
			Password:     cfg.Password,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
	}

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
