package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"budgetwise/internal/interfaces/scheduler"
)

// StartServer creates and starts the HTTP server in the background.
// TLS termination is left to the reverse proxy in front of the service.
func StartServer(addr string, handler http.Handler, logger *logrus.Logger) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("HTTP server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("HTTP server error")
		}
	}()

	return srv
}

// GracefulShutdown stops the server and scheduler, waiting for in-flight work.
func GracefulShutdown(srv *http.Server, sched *scheduler.Scheduler, timeout time.Duration, logger *logrus.Logger) {
	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if sched != nil {
		sched.Shutdown(timeout)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Error shutting down server")
	}

	logger.Info("Server stopped")
}
