package main

import (
	"context"
	"errors"
	"eventManager/internal/config"
	"eventManager/internal/http-server/router"
	"eventManager/internal/lib/clock"
	"eventManager/internal/lib/logger/handlers/slogpretty"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/notify"
	"eventManager/internal/notify/rabbitmq"
	"eventManager/internal/service/events"
	"eventManager/internal/storage/memory"
	"eventManager/internal/storage/postgres"
	"eventManager/internal/storage/sqlite"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const shutdownTimeout = 10 * time.Second

type eventStore interface {
	events.Storage
	Close() error
}

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting event manager", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage.Driver))
	log.Debug("Debug messages are enabled")

	storage, err := setupStorage(cfg, log)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	publisher, closePublisher := setupPublisher(cfg, log)

	svc := events.New(log, storage, publisher, clock.NewSystem())

	handler := router.New(log, svc, router.Options{
		CORSOrigins: cfg.HTTPServer.CORSOrigins,
		RateLimit:   cfg.HTTPServer.RateLimit,
		StaticDir:   "./static/",
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	closePublisher()

	if err = storage.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}

	log.Info("storage closed")
}

func setupStorage(cfg *config.Config, log *slog.Logger) (eventStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return postgres.InitDB(&cfg.Storage.Database)
	case config.DriverSQLite:
		return sqlite.Open(&cfg.Storage.SQLite, log)
	case config.DriverMemory:
		log.Warn("using in-memory storage, events are lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// setupPublisher connects to RabbitMQ when configured. A broker that cannot
// be reached disables notifications instead of stopping the server.
func setupPublisher(cfg *config.Config, log *slog.Logger) (notify.Publisher, func()) {
	if cfg.RabbitMQ.URL == "" {
		log.Info("rabbitmq url not set, notifications disabled")
		return notify.Nop{}, func() {}
	}

	pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
	if err != nil {
		log.Error("failed to connect to rabbitmq, notifications disabled", sl.Err(err))
		return notify.Nop{}, func() {}
	}

	return pub, pub.Close
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
