package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/config"
	"github.com/gab-cat/qpi-calculator-sub000/internal/api/handler"
	"github.com/gab-cat/qpi-calculator-sub000/internal/api/router"
	"github.com/gab-cat/qpi-calculator-sub000/internal/catalog"
	"github.com/gab-cat/qpi-calculator-sub000/internal/repository"
	"github.com/gab-cat/qpi-calculator-sub000/internal/service"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/database"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/logger"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zlog, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	db, err := database.NewDB(&cfg.Database, zlog)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zlog); err != nil {
		return err
	}

	// Redis is optional: without it the import/export routes run
	// unthrottled.
	rdb, err := redis.NewClient(&cfg.Redis, zlog)
	if err != nil {
		zlog.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	repo := repository.NewRepository(db)
	cat := catalog.NewClient(&cfg.Catalog, zlog)
	svc := service.NewService(cfg, repo, cat, zlog)

	// Upgrade the record store layout before serving traffic.
	if from, err := svc.Snapshot.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrating record store: %w", err)
	} else if from < service.CurrentSchemaVersion {
		zlog.Info("record store upgraded",
			zap.Int("from", from),
			zap.Int("to", service.CurrentSchemaVersion))
	}

	h := handler.NewHandler(svc, zlog)
	engine := router.New(cfg, h, rdb, zlog)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	zlog.Info("server stopped")
	return nil
}
