package main

import (
	"context"
	"log"
	"net/http"
	"time"
)

// StartServer creates and starts the API server in a background goroutine.
func StartServer(addr string, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("HTTP server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	return srv
}

// GracefulShutdown drains in-flight requests and flushes telemetry.
func GracefulShutdown(srv *http.Server, telemetryShutdown func(context.Context) error, timeout time.Duration) {
	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if telemetryShutdown != nil {
		if err := telemetryShutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}

	log.Println("Server stopped")
}
