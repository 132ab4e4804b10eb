package auth

import (
	"context"

	"github.com/mmynk/oremus/internal/models"
)

// ProfileFetcher resolves a bearer token from the identity provider into the
// user it belongs to. This abstraction lets the session store and the auth
// service run against Google's userinfo endpoint in production and a stub
// in tests.
type ProfileFetcher interface {
	// FetchProfile returns the profile of the token's owner, or an error if
	// the token is invalid or the provider cannot be reached.
	FetchProfile(ctx context.Context, token string) (*models.User, error)
}

// DemoUserID identifies the demo identity.
const DemoUserID = "demo-user"

// DemoUser returns the fixed identity used in demo mode. It is never
// verified against an identity provider.
func DemoUser() *models.User {
	return &models.User{
		ID:       DemoUserID,
		Name:     "Demo User",
		Email:    "demo@oremus.app",
		PhotoURL: "https://randomuser.me/api/portraits/lego/1.jpg",
	}
}
