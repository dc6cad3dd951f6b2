// Package services holds the typed wrappers over the backend API. Each
// operation is one HTTP call: no retries, no caching, errors propagate
// unchanged to the caller.
package services

import (
	"context"

	"outlai/internal/api"
	"outlai/internal/core"
)

type (
	// LoginCredentials is the login payload.
	LoginCredentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// RegisterCredentials is the registration payload.
	RegisterCredentials struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// LoginResult is what the login endpoint returns. The session itself
	// travels as a cookie; the token is only exposed for expiry
	// inspection.
	LoginResult struct {
		Token string    `json:"token"`
		User  core.User `json:"user"`
	}
)

// AuthService wraps the authentication endpoints.
type AuthService struct {
	client *api.Client
}

func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

// Login establishes a backend session.
func (s *AuthService) Login(ctx context.Context, creds LoginCredentials) (LoginResult, error) {
	var out LoginResult
	err := s.client.Post(ctx, "/auth/login", api.RequestOptions{Body: creds}, &out)
	return out, err
}

// Register creates a new account. The caller still has to log in.
func (s *AuthService) Register(ctx context.Context, creds RegisterCredentials) error {
	return s.client.Post(ctx, "/auth/register", api.RequestOptions{Body: creds}, nil)
}

// Me returns the currently authenticated user.
func (s *AuthService) Me(ctx context.Context) (core.User, error) {
	var out core.User
	err := s.client.Get(ctx, "/users/me", api.RequestOptions{}, &out)
	return out, err
}

// Logout tears down the backend session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.Post(ctx, "/auth/logout", api.RequestOptions{}, nil)
}

// ResendVerification asks the backend to re-send the verification email.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	return s.client.Post(ctx, "/auth/resend-email-verification", api.RequestOptions{
		Body: map[string]string{"email": email},
	}, nil)
}

// RequestPasswordReset starts the password reset flow for an email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.client.Post(ctx, "/auth/request-password-reset", api.RequestOptions{
		Body: map[string]string{"email": email},
	}, nil)
}

// ResetPassword completes the password reset flow.
func (s *AuthService) ResetPassword(ctx context.Context, userID, token, newPassword string) error {
	return s.client.Post(ctx, "/auth/reset-password", api.RequestOptions{
		Body: map[string]string{
			"userId":      userID,
			"token":       token,
			"newPassword": newPassword,
		},
	}, nil)
}
