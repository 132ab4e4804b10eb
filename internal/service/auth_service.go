package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/pkg/api"
	"github.com/mmynk/oremus/pkg/api/apiconnect"
)

var ErrDemoDisabled = errors.New("demo mode is disabled")

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	fetcher     auth.ProfileFetcher
	jwtManager  *auth.JWTManager
	demoEnabled bool
	logger      *slog.Logger
}

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// NewAuthService creates a new authentication service. fetcher verifies
// identity-provider access tokens.
func NewAuthService(fetcher auth.ProfileFetcher, jwtManager *auth.JWTManager, demoEnabled bool, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		fetcher:     fetcher,
		jwtManager:  jwtManager,
		demoEnabled: demoEnabled,
		logger:      logger,
	}
}

// SignIn verifies an access token with the identity provider and returns an
// API token for its owner.
func (s *AuthService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	if req.Msg.AccessToken == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrMissingToken)
	}

	user, err := s.fetcher.FetchProfile(ctx, req.Msg.AccessToken)
	if err != nil {
		s.logger.Warn("SignIn failed", "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}

	token, err := s.jwtManager.Generate(user, false)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User signed in", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&api.SignInResponse{User: toAPIUser(user), Token: token}), nil
}

// Demo returns a token for the fixed demo identity.
func (s *AuthService) Demo(ctx context.Context, req *connect.Request[api.DemoRequest]) (*connect.Response[api.DemoResponse], error) {
	if !s.demoEnabled {
		return nil, connect.NewError(connect.CodePermissionDenied, ErrDemoDisabled)
	}

	user := auth.DemoUser()
	token, err := s.jwtManager.Generate(user, true)
	if err != nil {
		s.logger.Error("Failed to generate demo token", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Demo session started")
	return connect.NewResponse(&api.DemoResponse{User: toAPIUser(user), Token: token}), nil
}
