package auth

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := DeriveSigningKey("a-sufficiently-long-test-secret")
	require.NoError(t, err)
	return key
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager(testKey(t), time.Hour)
	user := DemoUser()

	token, err := m.Generate(user, true)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.ID, claims.Subject)
	assert.True(t, claims.Demo)
	assert.Equal(t, user, claims.User())
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager(testKey(t), -time.Minute)

	token, err := m.Generate(DemoUser(), false)
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsForeignKey(t *testing.T) {
	issuer := NewJWTManager(testKey(t), time.Hour)
	otherKey, err := DeriveSigningKey("some-other-secret-entirely")
	require.NoError(t, err)
	verifier := NewJWTManager(otherKey, time.Hour)

	token, err := issuer.Generate(DemoUser(), false)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeriveSigningKey(t *testing.T) {
	a, err := DeriveSigningKey("0123456789abcdef")
	require.NoError(t, err)
	b, err := DeriveSigningKey("0123456789abcdef")
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.Equal(t, a, b, "derivation must be deterministic")

	_, err = DeriveSigningKey("short")
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestNewOAuth2Config(t *testing.T) {
	_, err := NewOAuth2Config(OAuthConfig{})
	assert.ErrorIs(t, err, ErrOAuthNotConfigured)

	cfg, err := NewOAuth2Config(OAuthConfig{
		ClientID:    "client-123",
		RedirectURL: "http://localhost:5000/callback",
		AuthURL:     "https://id.example.com/authorize",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultScopes, cfg.Scopes)

	u, err := url.Parse(cfg.AuthCodeURL("xyz"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.String(), "https://id.example.com/authorize"))
	assert.Equal(t, "client-123", u.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:5000/callback", u.Query().Get("redirect_uri"))
	assert.Equal(t, "openid email profile", u.Query().Get("scope"))
	assert.Equal(t, "xyz", u.Query().Get("state"))
}

func TestNewState(t *testing.T) {
	a, err := NewState()
	require.NoError(t, err)
	b, err := NewState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "=")
}
