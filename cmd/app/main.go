package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderhub/cmd"
	httpin "orderhub/internal/adapters/in/http"
	"orderhub/internal/adapters/out/postgres"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := cmd.NewLogger(os.Stdout, configs.LogLevel, configs.LogFormat)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := mustGormOpen(configs)

	app, err := cmd.NewCompositionRoot(ctx, configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close connections", slog.String("error", err.Error()))
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	httpin.NewServer(app.HTTPHandlers(), logger).Register(e)
	e.GET("/metrics", echo.WrapHandler(app.Metrics().Handler()))

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()
	logger.Info("orderhub started", slog.String("port", configs.HTTPPort))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down http server", slog.String("error", err.Error()))
	}
}

func mustGormOpen(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("connection to postgres through gorm: %v", err)
	}

	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}
	return gormDB
}
