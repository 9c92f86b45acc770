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

	"storefront/cmd"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	level, _ := configs.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, configs, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	router, err := app.CreateRouter()
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		app.Publisher().RunRelay(relayCtx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- startWebServer(router, configs.HTTPPort)
	}()
	logger.Info("storefront started", "port", configs.HTTPPort, "store", configs.StoreDriver)

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err = <-serverErr:
		logger.Error("http server stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()

	if err = router.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	jobManager.StopAll()
	app.Registry().Close(shutdownCtx)
	stopRelay()
	<-relayDone
	if err = app.Close(); err != nil {
		logger.Error("closing connections failed", "error", err)
	}
	logger.Info("storefront stopped")
}

func startWebServer(e *echo.Echo, port string) error {
	err := e.Start(fmt.Sprintf("0.0.0.0:%s", port))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
