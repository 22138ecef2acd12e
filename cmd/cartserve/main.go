// Command cartserve is a development server for the recipe cart module: it
// serves the built page and wasm bundle and forwards /api/ to the recipe
// backend so the module can call it same-origin.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"groceryhelper/internal/config"
	"groceryhelper/internal/static"
	"groceryhelper/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	handler, shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, base)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Error("failed to flush telemetry", "error", err)
		}
	}()
	slog.SetDefault(slog.New(handler))

	mux, err := newMux(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           WithMiddleware(mux, prometheus.DefaultRegisterer),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving recipe cart bundle", "addr", cfg.Server.Addr, "static_dir", cfg.Server.StaticDir, "backend", cfg.Server.BackendURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMux(cfg *config.Config) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	static.New(os.DirFS(cfg.Server.StaticDir)).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	ready := &readyOnce{}
	if cfg.Server.BackendURL != "" {
		backend, err := url.Parse(cfg.Server.BackendURL)
		if err != nil {
			return nil, fmt.Errorf("parse backend url: %w", err)
		}
		mux.Handle("/api/", newAPIProxy(backend))
		ready.Add(&backendCheck{url: backend.String(), client: &http.Client{Timeout: 5 * time.Second}})
	} else {
		slog.Warn("BACKEND_URL not set, /api/ is not forwarded")
	}
	mux.Handle("GET /ready", ready)
	return mux, nil
}

func newAPIProxy(backend *url.URL) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(backend)
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.ErrorContext(r.Context(), "backend request failed", "url", r.URL.Path, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"message":"Recipe service unavailable"}`))
		},
	}
	return proxy
}
