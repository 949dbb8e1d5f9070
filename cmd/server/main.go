package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kytehq/kyte/internal/config"
	"github.com/kytehq/kyte/internal/db"
	"github.com/kytehq/kyte/internal/procedures"
	"github.com/kytehq/kyte/internal/rpc"
	"github.com/kytehq/kyte/internal/server"
	"github.com/kytehq/kyte/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}

	log := newLogger(cfg)
	defer log.Sync()

	conn, err := db.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := db.Migrate(conn, cfg.DatabaseURL, cfg.Migrations); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	router := rpc.NewRouter()
	procedures.Register(router, store.NewStores(conn))
	log.Info("procedures registered", zap.Int("count", len(router.Names())))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(cfg, router, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("stopped")
}

func newLogger(cfg config.Config) *zap.Logger {
	var log *zap.Logger
	var err error
	if cfg.LogFormat == "console" || cfg.Env == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return log.With(zap.String("service", "kyte"))
}
