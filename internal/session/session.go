// Package session holds the client's current identity: signed in through
// OAuth, in demo mode, or anonymous. The identity is persisted in local
// storage so it survives restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/oauth2"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/localstore"
	"github.com/mmynk/oremus/internal/models"
)

// ErrAuthFailed is returned when the external token or profile exchange
// does not complete. The underlying cause is wrapped.
var ErrAuthFailed = errors.New("authentication failed")

// ErrSuperseded is returned by CompleteSignIn when the session changed
// (demo, sign-out or another sign-in) while the profile was being fetched.
var ErrSuperseded = errors.New("session changed during sign-in")

// TokenParam is the callback query parameter carrying the bearer token.
const TokenParam = "token"

// State is the lifecycle state of a session.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAnonymous
	StateAuthenticated
	StateDemo
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateDemo:
		return "demo"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Store owns the session identity and its copy in local storage.
// At most one of the authenticated and demo identities is active.
type Store struct {
	local   localstore.Store
	fetcher auth.ProfileFetcher
	oauth   *oauth2.Config
	logger  *slog.Logger

	mu    sync.RWMutex
	state State
	user  *models.User
	token string
	// gen counts state transitions; CompleteSignIn only writes back if no
	// other transition happened while it was fetching.
	gen uint64
}

// New creates an uninitialized session store. oauth may be nil, in which
// case SignIn fails with auth.ErrOAuthNotConfigured.
func New(local localstore.Store, fetcher auth.ProfileFetcher, oauth *oauth2.Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		local:   local,
		fetcher: fetcher,
		oauth:   oauth,
		logger:  logger,
		state:   StateUninitialized,
	}
}

// Init restores the session from local storage. A set demo flag wins over
// a saved identity; a malformed saved identity counts as none.
func (s *Store) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.state = StateLoading

	if v, ok := s.local.Get(localstore.KeyDemo); ok && v == "true" {
		s.state = StateDemo
		s.user = auth.DemoUser()
		s.logger.Debug("Session restored", "state", s.state)
		return
	}

	var user models.User
	if localstore.GetJSON(s.local, localstore.KeyUser, &user) && user.ID != "" {
		s.state = StateAuthenticated
		s.user = &user
		s.token, _ = s.local.Get(localstore.KeyToken)
		s.logger.Debug("Session restored", "state", s.state, "user_id", user.ID)
		return
	}

	if _, ok := s.local.Get(localstore.KeyUser); ok {
		s.logger.Warn("Ignoring malformed saved identity")
	}
	s.state = StateAnonymous
	s.user = nil
	s.token = ""
}

// SignIn returns the provider authorization URL to hand control to. The
// flow resumes out of process, at CompleteSignIn, once the relay redirects
// back with a token.
func (s *Store) SignIn(state string) (string, error) {
	if s.oauth == nil {
		return "", auth.ErrOAuthNotConfigured
	}
	return s.oauth.AuthCodeURL(state), nil
}

// CompleteSignIn exchanges a bearer token for the user's profile and makes
// that user the active identity. On failure the session is left as it was
// and the returned error wraps ErrAuthFailed.
func (s *Store) CompleteSignIn(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrAuthFailed)
	}

	s.mu.Lock()
	prev := s.state
	if prev == StateLoading {
		// a sign-in is already in flight; it will be superseded
		prev = s.settledState()
	}
	s.state = StateLoading
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	user, err := s.fetcher.FetchProfile(ctx, token)
	if err != nil {
		s.restore(gen, prev)
		s.logger.Warn("Sign-in failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		s.logger.Warn("Discarding sign-in", "user_id", user.ID, "state", s.state)
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, ErrSuperseded)
	}
	if err := s.persistUser(user, token); err != nil {
		s.state = prev
		return nil, err
	}

	s.state = StateAuthenticated
	s.user = user
	s.token = token

	s.logger.Info("Signed in", "user_id", user.ID, "email", user.Email)
	return cloneUser(user), nil
}

// CompleteSignInFromCallback reads the token query parameter set by the
// OAuth relay. A missing token is an authentication failure.
func (s *Store) CompleteSignInFromCallback(ctx context.Context, query url.Values) (*models.User, error) {
	return s.CompleteSignIn(ctx, query.Get(TokenParam))
}

// EnterDemo switches to the fixed demo identity, replacing any signed-in user.
func (s *Store) EnterDemo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.clearIdentity(); err != nil {
		return err
	}
	if err := s.local.Set(localstore.KeyDemo, "true"); err != nil {
		return fmt.Errorf("failed to save demo flag: %w", err)
	}

	s.gen++
	s.state = StateDemo
	s.user = auth.DemoUser()
	s.token = ""
	s.logger.Info("Entered demo mode")
	return nil
}

// SignOut forgets the identity and the demo flag.
func (s *Store) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.local.Delete(localstore.KeyDemo); err != nil {
		return fmt.Errorf("failed to clear demo flag: %w", err)
	}
	if err := s.clearIdentity(); err != nil {
		return err
	}

	s.gen++
	s.state = StateAnonymous
	s.user = nil
	s.token = ""
	s.logger.Info("Signed out")
	return nil
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the active identity, or nil when anonymous.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// IsDemo reports whether the demo identity is active.
func (s *Store) IsDemo() bool {
	return s.State() == StateDemo
}

// Token returns the bearer token of an authenticated session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// restore puts back the state from before a failed sign-in, unless
// another transition has happened since.
func (s *Store) restore(gen uint64, prev State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.state = prev
	}
}

// settledState derives the state from the active identity. It must be
// called with s.mu held.
func (s *Store) settledState() State {
	switch {
	case s.user == nil:
		return StateAnonymous
	case s.user.ID == auth.DemoUserID && s.token == "":
		return StateDemo
	default:
		return StateAuthenticated
	}
}

// persistUser must be called with s.mu held.
func (s *Store) persistUser(user *models.User, token string) error {
	if err := localstore.SetJSON(s.local, localstore.KeyUser, user); err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}
	if err := s.local.Set(localstore.KeyToken, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	if err := s.local.Delete(localstore.KeyDemo); err != nil {
		return fmt.Errorf("failed to clear demo flag: %w", err)
	}
	return nil
}

// clearIdentity must be called with s.mu held.
func (s *Store) clearIdentity() error {
	if err := s.local.Delete(localstore.KeyUser); err != nil {
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	if err := s.local.Delete(localstore.KeyToken); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
