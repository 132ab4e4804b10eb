// Package cli implements the oremus command-line client: the view layer
// over the session, preference and locale stores and the repository.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/config"
	"github.com/mmynk/oremus/internal/i18n"
	"github.com/mmynk/oremus/internal/identity"
	"github.com/mmynk/oremus/internal/localstore"
	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/prefs"
	"github.com/mmynk/oremus/internal/session"
	"github.com/mmynk/oremus/internal/storage"
	"github.com/mmynk/oremus/internal/storage/memory"
	"github.com/mmynk/oremus/internal/storage/remote"
	"github.com/mmynk/oremus/internal/storage/sqlite"
	"github.com/mmynk/oremus/pkg/api"
	"github.com/mmynk/oremus/pkg/api/apiconnect"
)

// ErrNotSignedIn is returned by commands that need an identity.
var ErrNotSignedIn = errors.New("not signed in: run `oremus login` or `oremus demo`")

const (
	localFile    = "local.json"
	databaseFile = "oremus.db"
)

// App holds the stores shared by all commands. It is built once per
// invocation and passed down.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Local   localstore.Store
	Session *session.Store
	Prefs   *prefs.Store
	Locale  *i18n.Store

	style      *styler
	httpClient *http.Client

	repoOnce sync.Once
	repo     storage.Repository
	repoErr  error

	tokenMu  sync.Mutex
	apiToken string
}

// Open builds the stores from cfg. getenv supplies the locale environment.
func Open(cfg *config.Config, getenv func(string) string, color bool, logger *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.Client.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	local, err := localstore.OpenFile(filepath.Join(cfg.Client.DataDir, localFile), logger)
	if err != nil {
		return nil, err
	}

	oauthCfg, err := auth.NewOAuth2Config(auth.OAuthConfig{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURL:  cfg.OAuth.RedirectURL,
		Scopes:       cfg.OAuth.Scopes,
		AuthURL:      cfg.OAuth.AuthURL,
		TokenURL:     cfg.OAuth.TokenURL,
	})
	if err != nil && !errors.Is(err, auth.ErrOAuthNotConfigured) {
		return nil, err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	sess := session.New(local, identity.NewClient(cfg.Auth.UserInfoURL, httpClient), oauthCfg, logger)
	sess.Init()

	systemTheme, _ := prefs.ParseTheme(cfg.Client.Theme)
	p := prefs.New(local, systemTheme, logger)

	app := &App{
		Config:     cfg,
		Logger:     logger,
		Local:      local,
		Session:    sess,
		Prefs:      p,
		Locale:     i18n.New(local, getenv, logger),
		style:      newStyler(p.Presentation(), color),
		httpClient: httpClient,
	}
	p.Subscribe(app.style.update)
	return app, nil
}

// Repository opens the configured repository on first use: a remote API
// server when client.server_url is set, else a local store.
func (a *App) Repository() (storage.Repository, error) {
	a.repoOnce.Do(func() {
		var repo storage.Repository
		switch {
		case a.Config.Client.ServerURL != "":
			repo = remote.New(a.httpClient, a.Config.Client.ServerURL, a.token, a.Logger)
		case a.Config.Storage.Driver == "memory":
			opts := []memory.Option{memory.WithLogger(a.Logger)}
			if a.Config.Storage.Seed {
				opts = append(opts, memory.WithSeed())
			}
			if !a.Config.Storage.Latency {
				opts = append(opts, memory.WithoutLatency())
			}
			repo = memory.New(opts...)
		default:
			repo, a.repoErr = sqlite.New(filepath.Join(a.Config.Client.DataDir, databaseFile))
			if a.repoErr != nil {
				return
			}
		}
		metered, err := storage.NewMetered(repo, prometheus.NewRegistry())
		if err != nil {
			_ = repo.Close()
			a.repoErr = err
			return
		}
		a.repo = metered
	})
	return a.repo, a.repoErr
}

// Close releases the repository.
func (a *App) Close() error {
	if a.repo != nil {
		return a.repo.Close()
	}
	return nil
}

// CurrentUser returns the signed-in or demo identity.
func (a *App) CurrentUser() (*models.User, error) {
	switch a.Session.State() {
	case session.StateAuthenticated, session.StateDemo:
		return a.Session.User(), nil
	default:
		return nil, ErrNotSignedIn
	}
}

// token exchanges the session identity for an API token, once per run.
func (a *App) token(ctx context.Context) (string, error) {
	a.tokenMu.Lock()
	defer a.tokenMu.Unlock()

	if a.apiToken != "" {
		return a.apiToken, nil
	}

	client := apiconnect.NewAuthServiceClient(a.httpClient, a.Config.Client.ServerURL)
	switch a.Session.State() {
	case session.StateDemo:
		resp, err := client.Demo(ctx, connect.NewRequest(&api.DemoRequest{}))
		if err != nil {
			return "", fmt.Errorf("demo sign-in rejected by server: %w", err)
		}
		a.apiToken = resp.Msg.Token
	case session.StateAuthenticated:
		resp, err := client.SignIn(ctx, connect.NewRequest(&api.SignInRequest{AccessToken: a.Session.Token()}))
		if err != nil {
			return "", fmt.Errorf("sign-in rejected by server: %w", err)
		}
		a.apiToken = resp.Msg.Token
	default:
		return "", ErrNotSignedIn
	}
	return a.apiToken, nil
}
