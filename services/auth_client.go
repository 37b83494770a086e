// memory-match-service/services/auth_client.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// AuthUser is the identity the auth provider resolves a token to.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// TokenResolver turns an opaque access token into a stable user id.
// The HTTP middleware depends on this interface so tests can stub it.
type TokenResolver interface {
	ResolveToken(ctx context.Context, accessToken string) (*AuthUser, error)
}

// AuthClient resolves tokens against the hosted auth provider's user
// endpoint (GET /auth/v1/user with the caller's bearer token).
type AuthClient struct {
	BaseURL string
	AnonKey string
	Client  *http.Client
}

func NewAuthClient(baseURL, anonKey string) *AuthClient {
	return &AuthClient{
		BaseURL: baseURL,
		AnonKey: anonKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ResolveToken calls the auth provider and returns the token's user.
// Any non-200 response means the token is not valid.
func (c *AuthClient) ResolveToken(ctx context.Context, accessToken string) (*AuthUser, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.AnonKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("AuthService /user returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("token validation failed: %d", resp.StatusCode)
	}

	var out AuthUser
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("auth response missing user id")
	}

	return &out, nil
}
