// Command relay runs the OAuth relay: it exchanges the provider's
// authorization code for an access token and redirects to the app.
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

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/config"
	"github.com/mmynk/oremus/internal/relay"
	"github.com/mmynk/oremus/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Relay failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.New(), os.Getenv("OREMUS_CONFIG"))
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level)

	oauthCfg, err := auth.NewOAuth2Config(auth.OAuthConfig{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURL:  cfg.OAuth.RedirectURL,
		Scopes:       cfg.OAuth.Scopes,
		AuthURL:      cfg.OAuth.AuthURL,
		TokenURL:     cfg.OAuth.TokenURL,
	})
	if err != nil {
		return fmt.Errorf("%w (set OREMUS_OAUTH_CLIENT_ID and OREMUS_OAUTH_CLIENT_SECRET)", err)
	}
	if cfg.Relay.SessionSecret == "" {
		return errors.New("relay.session_secret is required (set OREMUS_RELAY_SESSION_SECRET)")
	}

	rl := relay.New(relay.Config{
		AppCallbackURL:  cfg.Relay.AppCallbackURL,
		SessionSecret:   cfg.Relay.SessionSecret,
		SecureCookies:   cfg.Relay.SecureCookies,
		ExchangeTimeout: cfg.Relay.ExchangeTimeout,
	}, oauthCfg, &http.Client{Timeout: cfg.Relay.ExchangeTimeout}, logger)

	srv := &http.Server{
		Addr:              cfg.Relay.Addr(),
		Handler:           rl.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("OAuth relay starting", "address", srv.Addr, "app_callback", cfg.Relay.AppCallbackURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down relay")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
