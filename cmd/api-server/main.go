package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hackgods/healthcare-appointment-registry/internal/api"
	"github.com/hackgods/healthcare-appointment-registry/internal/appointment"
	"github.com/hackgods/healthcare-appointment-registry/internal/config"
	"github.com/hackgods/healthcare-appointment-registry/internal/db"
	"github.com/hackgods/healthcare-appointment-registry/internal/logging"
	"github.com/hackgods/healthcare-appointment-registry/internal/metrics"
	redisclient "github.com/hackgods/healthcare-appointment-registry/internal/redis"
	"github.com/hackgods/healthcare-appointment-registry/internal/seed"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("api-server", "console", "info")
		bootLog.Fatal().Err(err).Msg("config load error")
	}

	log := logging.New("api-server", cfg.LogFormat, cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	doctors, err := seed.Directory(cfg.DirectoryFile, cfg.FakeDoctors, cfg.FakeSeed)
	if err != nil {
		log.Fatal().Err(err).Msg("directory load error")
	}
	dir, err := appointment.NewDirectory(doctors)
	if err != nil {
		log.Fatal().Err(err).Msg("directory build error")
	}
	log.Info().Int("doctors", dir.Len()).Msg("doctor directory ready")

	var sinks appointment.MultiSink

	var pgPool *pgxpool.Pool
	if cfg.PostgresDSN != "" {
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		sink, pool, err := db.OpenEventSink(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connection error")
		}
		defer pool.Close()
		pgPool = pool
		sinks = append(sinks, sink)
		log.Info().Msg("connected to Postgres, audit log enabled")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = redisclient.Connect(rootCtx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection error")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing redis")
			}
		}()
		sinks = append(sinks, redisclient.NewPublisher(rdb, cfg.EventsChannel))
		log.Info().Str("channel", cfg.EventsChannel).Msg("connected to Redis, event publishing enabled")
	}

	var sink appointment.EventSink
	if len(sinks) > 0 {
		sink = sinks
	}

	svc := appointment.NewService(dir, appointment.NewMemoryRepository(), sink, cfg, log)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(svc.Count)
	}

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.RouterConfig{
			Service: svc,
			Metrics: m,
			Logger:  log,
			PgPool:  pgPool,
			Redis:   rdb,
			Env:     cfg.Env,
			Version: version,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info().Str("addr", srv.Addr).Msg("http server started")

	select {
	case <-rootCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped with error")
			os.Exit(1)
		}
	}

	shutdown(log, srv, cfg.ShutdownTimeout)
}

func shutdown(log zerolog.Logger, srv *http.Server, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown timed out; forcing close")
		_ = srv.Close()
		return
	}
	log.Info().Msg("api-server stopped")
}
