// Package identity fetches user profiles from an OAuth2 userinfo endpoint.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/models"
)

// GoogleUserInfoURL is Google's OpenID Connect userinfo endpoint.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// ErrEmptyToken is returned when FetchProfile is called without a token.
var ErrEmptyToken = errors.New("empty bearer token")

// Ensure Client implements auth.ProfileFetcher
var _ auth.ProfileFetcher = (*Client)(nil)

// Client calls a userinfo endpoint with a bearer token.
type Client struct {
	userInfoURL string
	httpClient  *http.Client
}

// NewClient creates a Client for the given endpoint. An empty URL selects
// Google's. httpClient may be nil.
func NewClient(userInfoURL string, httpClient *http.Client) *Client {
	if userInfoURL == "" {
		userInfoURL = GoogleUserInfoURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{userInfoURL: userInfoURL, httpClient: httpClient}
}

type userInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// FetchProfile returns the user that owns token.
func (c *Client) FetchProfile(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	// The oauth2 transport attaches the bearer token to every request.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.Sub == "" {
		return nil, errors.New("user info has no subject")
	}

	return &models.User{
		ID:       info.Sub,
		Name:     info.Name,
		Email:    info.Email,
		PhotoURL: info.Picture,
	}, nil
}
