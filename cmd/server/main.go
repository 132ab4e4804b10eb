// Command server serves the Oremus group and prayer APIs over Connect.
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

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/config"
	"github.com/mmynk/oremus/internal/identity"
	"github.com/mmynk/oremus/internal/middleware"
	"github.com/mmynk/oremus/internal/service"
	"github.com/mmynk/oremus/internal/storage"
	"github.com/mmynk/oremus/internal/storage/memory"
	"github.com/mmynk/oremus/internal/storage/sqlite"
	"github.com/mmynk/oremus/pkg/api/apiconnect"
	"github.com/mmynk/oremus/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.New(), os.Getenv("OREMUS_CONFIG"))
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repo, err := openRepository(cfg.Storage, logger)
	if err != nil {
		return err
	}
	store, err := storage.NewMetered(repo, reg)
	if err != nil {
		repo.Close()
		return err
	}
	defer store.Close()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (set OREMUS_AUTH_JWT_SECRET)")
	}
	key, err := auth.DeriveSigningKey(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	jwtManager := auth.NewJWTManager(key, cfg.Auth.JWTExpiry)

	httpMetrics, err := middleware.NewHTTPMetrics(reg)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}
	fetcher := identity.NewClient(cfg.Auth.UserInfoURL, httpClient)

	logged := connect.WithInterceptors(middleware.LoggingInterceptor(logger))
	authed := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(logger))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(httpMetrics.Handler)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(fetcher, jwtManager, cfg.Auth.DemoEnabled, logger), logged))
	r.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(store, logger), authed))
	r.Handle(apiconnect.NewPrayerServiceHandler(service.NewPrayerService(store, logger), authed))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		// h2c serves HTTP/2 without TLS, which Connect's gRPC protocol needs
		Handler:      h2c.NewHandler(r, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  time.Minute,
	}

	logger.Info("Connect server starting",
		"address", srv.Addr,
		"storage", cfg.Storage.Driver,
		"demo_enabled", cfg.Auth.DemoEnabled,
	)
	return serve(srv, logger)
}

func openRepository(cfg config.StorageConfig, logger *slog.Logger) (storage.Repository, error) {
	switch cfg.Driver {
	case "memory":
		opts := []memory.Option{memory.WithLogger(logger)}
		if cfg.Seed {
			opts = append(opts, memory.WithSeed())
		}
		if !cfg.Latency {
			opts = append(opts, memory.WithoutLatency())
		}
		logger.Info("Storage initialized", "driver", "memory", "seed", cfg.Seed)
		return memory.New(opts...), nil
	case "sqlite":
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		logger.Info("Storage initialized", "driver", "sqlite", "database", cfg.Path)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// serve runs srv until SIGINT or SIGTERM, then drains connections.
func serve(srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return <-errCh
}
