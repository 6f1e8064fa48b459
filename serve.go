package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ServeCmd previews a generated site. Root is the site directory, the one
// holding index.html, css/, js/ and the lesson output directory.
type ServeCmd struct {
	Root string `default:"." type:"existingdir" help:"Site root directory"`
	Port string `default:"3000" env:"PORT" help:"Port to listen on"`
}

func (c *ServeCmd) Run(e *env) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", c.Port),
		Handler:      loggingMiddleware(e.logger, siteHandler(c.Root)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		serverURL := fmt.Sprintf("http://localhost:%s/", c.Port)
		e.logger.Info("Preview server starting", "url", serverURL, "root", c.Root)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-e.ctx.Done():
	}

	e.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		e.logger.Error("Server shutdown error", "error", err)
	}

	e.logger.Info("Server stopped")
	return nil
}

func siteHandler(root string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(root)))
	return mux
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
