package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/config"
	"github.com/Davidxcr/YelpCamp/internal/db"
	"github.com/Davidxcr/YelpCamp/internal/logging"
	"github.com/Davidxcr/YelpCamp/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, *pgxpool.Pool, *redis.Client, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		logging.Error().Err(err).Msg("postgres connection failed")
		return
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(context.Background(), pg); err != nil {
			logging.Error().Err(err).Msg("schema migration failed")
			pg.Close()
			return
		}
		logging.Info().Msg("schema migrated")
	}

	rdb := deps.connectRedis(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, pg, rdb, signals, nil); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client, signals <-chan os.Signal, listen ListenFunc) error {
	opts := server.Options{
		Redis:    rdb,
		Images:   server.NewImageStore(cfg),
		Geocoder: server.NewGeocoder(cfg),
	}
	if pg != nil {
		opts.DB = pg
	}
	srv := server.NewServer(ctx, cfg, opts)
	defer func() { _ = srv.Close() }()

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.ServerPort).Msg("listening")
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	logging.Info().Msg("server stopped")
	return nil
}
