package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/middleware"
	"github.com/mmynk/oremus/internal/models"
	"github.com/mmynk/oremus/internal/storage"
	"github.com/mmynk/oremus/internal/storage/memory"
	"github.com/mmynk/oremus/pkg/api/apiconnect"
)

var alice = &models.User{ID: "alice-1", Name: "Alice", Email: "alice@example.com"}

type stubFetcher struct {
	users map[string]*models.User
}

func (f stubFetcher) FetchProfile(_ context.Context, token string) (*models.User, error) {
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, errors.New("token rejected by provider")
}

type testServer struct {
	auth    apiconnect.AuthServiceClient
	groups  apiconnect.GroupServiceClient
	prayers apiconnect.PrayerServiceClient
	jwt     *auth.JWTManager
	repo    storage.Repository
}

// setupTestServer serves all three services over httptest, backed by repo.
func setupTestServer(t *testing.T, repo storage.Repository, demoEnabled bool) *testServer {
	t.Helper()

	key, err := auth.DeriveSigningKey("service-test-secret-0123456789")
	if err != nil {
		t.Fatalf("failed to derive key: %v", err)
	}
	jwtManager := auth.NewJWTManager(key, time.Hour)
	fetcher := stubFetcher{users: map[string]*models.User{"alice-access-token": alice}}

	authOpts := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(nil))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(fetcher, jwtManager, demoEnabled, nil),
		connect.WithInterceptors(middleware.LoggingInterceptor(nil)),
	))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(repo, nil), authOpts))
	mux.Handle(apiconnect.NewPrayerServiceHandler(NewPrayerService(repo, nil), authOpts))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		repo.Close()
	})

	return &testServer{
		auth:    apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:  apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		prayers: apiconnect.NewPrayerServiceClient(http.DefaultClient, server.URL),
		jwt:     jwtManager,
		repo:    repo,
	}
}

func newMemoryServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServer(t, memory.New(memory.WithoutLatency()), true)
}

// authed wraps msg in a request carrying a token for user.
func authed[T any](t *testing.T, ts *testServer, user *models.User, msg *T) *connect.Request[T] {
	t.Helper()
	token, err := ts.jwt.Generate(user, false)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
