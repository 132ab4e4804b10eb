// Package relay exchanges OAuth authorization codes for access tokens and
// hands the token to the app through its callback URL.
package relay

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/middleware"
)

const (
	// SessionName is the cookie holding the pending OAuth state.
	SessionName = "oremus_relay"
	stateKey    = "state"
)

// Config configures a Relay.
type Config struct {
	// AppCallbackURL receives ?token=<access token> after a successful exchange.
	AppCallbackURL string
	// SessionSecret authenticates the state cookie.
	SessionSecret string
	// SecureCookies marks the state cookie Secure; enable behind TLS.
	SecureCookies bool
	// ExchangeTimeout bounds the call to the token endpoint.
	ExchangeTimeout time.Duration
}

// Relay serves /login, /callback and /healthz.
type Relay struct {
	cfg      Config
	oauth    *oauth2.Config
	sessions sessions.Store
	client   *http.Client
	logger   *slog.Logger
}

// New creates a relay. client is used for the token exchange; nil means
// http.DefaultClient.
func New(cfg Config, oauth *oauth2.Config, client *http.Client, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ExchangeTimeout == 0 {
		cfg.ExchangeTimeout = 15 * time.Second
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   10 * 60,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}

	return &Relay{cfg: cfg, oauth: oauth, sessions: store, client: client, logger: logger}
}

// Handler returns the relay's routes.
func (rl *Relay) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(rl.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", rl.health)
	r.Get("/login", rl.login)
	r.Get("/callback", rl.callback)
	return r
}

func (rl *Relay) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// login starts a sign-in: it remembers a fresh state in the session cookie
// and redirects to the provider's consent page.
func (rl *Relay) login(w http.ResponseWriter, r *http.Request) {
	state, err := auth.NewState()
	if err != nil {
		rl.logger.Error("Failed to create state", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	session, _ := rl.sessions.Get(r, SessionName)
	session.Values[stateKey] = state
	if err := session.Save(r, w); err != nil {
		rl.logger.Error("Failed to save session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, rl.oauth.AuthCodeURL(state), http.StatusFound)
}

// callback exchanges the code and redirects to the app with the token.
//
// A state remembered by login must match the query. Flows the app started
// on its own carry no relay cookie; their state is forwarded for the app
// to check.
func (rl *Relay) callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	if code == "" {
		if reason := query.Get("error"); reason != "" {
			rl.logger.Warn("Provider returned an error", "error", reason)
		}
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	state := query.Get("state")
	session, _ := rl.sessions.Get(r, SessionName)
	if want, ok := session.Values[stateKey].(string); ok {
		if state != want {
			rl.logger.Warn("OAuth state mismatch")
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}
		delete(session.Values, stateKey)
		session.Options.MaxAge = -1
		if err := session.Save(r, w); err != nil {
			rl.logger.Warn("Failed to clear session", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), rl.cfg.ExchangeTimeout)
	defer cancel()
	if rl.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, rl.client)
	}

	token, err := rl.oauth.Exchange(ctx, code)
	if err != nil {
		rl.logger.Error("Token exchange failed", "error", err)
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	target, err := appCallback(rl.cfg.AppCallbackURL, token.AccessToken, state)
	if err != nil {
		rl.logger.Error("Invalid app callback URL", "url", rl.cfg.AppCallbackURL, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rl.logger.Info("Sign-in relayed", "app_callback", rl.cfg.AppCallbackURL)
	http.Redirect(w, r, target, http.StatusFound)
}

func appCallback(base, token, state string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
