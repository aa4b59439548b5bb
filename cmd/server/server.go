package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout bounds how long in-flight requests get to finish after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// startHTTPServer starts the HTTP server with graceful shutdown support.
// It blocks until the server stops, either on signal or on failure.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: router,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.logger.Info("starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error("server failed", "error", err)
			cancelServer()
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("shutting down server")
	case <-serverCtx.Done():
		app.logger.Info("server context canceled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}
