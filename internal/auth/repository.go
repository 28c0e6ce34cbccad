package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/pkg/apiclient"
	"github.com/ping-crm/dashboard/pkg/envelope"
)

// Credentials is the body of POST /api/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of POST /api/register.
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// TokenResponse is the answer of login and register.
type TokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Repository calls the remote account endpoints.
type Repository struct {
	client *apiclient.Client
}

// NewRepository creates an auth repository.
func NewRepository(client *apiclient.Client) *Repository {
	return &Repository{client: client}
}

// Login exchanges credentials for a token.
func (r *Repository) Login(ctx context.Context, in Credentials) (*TokenResponse, error) {
	resp, err := r.client.Do(ctx, http.MethodPost, "/api/login", in, "Login failed")
	if err != nil {
		return nil, err
	}
	return decodeToken(resp.Body, "Login failed")
}

// Register creates an account and returns its token.
func (r *Repository) Register(ctx context.Context, in Registration) (*TokenResponse, error) {
	resp, err := r.client.Do(ctx, http.MethodPost, "/api/register", in, "Registration failed")
	if err != nil {
		return nil, err
	}
	return decodeToken(resp.Body, "Registration failed")
}

// Logout revokes the token carried by ctx.
func (r *Repository) Logout(ctx context.Context) error {
	_, err := r.client.Do(ctx, http.MethodPost, "/api/logout", nil, "Logout failed")
	return err
}

// Profile returns the user owning the token carried by ctx.
func (r *Repository) Profile(ctx context.Context) (*models.User, error) {
	resp, err := r.client.Do(ctx, http.MethodGet, "/api/profile", nil, "Failed to fetch profile")
	if err != nil {
		return nil, err
	}
	user, err := envelope.DecodeOne[models.User](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &user, nil
}

// UpdateProfile changes the current user's name, email or password.
func (r *Repository) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (*models.User, error) {
	resp, err := r.client.Do(ctx, http.MethodPatch, "/api/profile", in, "Failed to update profile")
	if err != nil {
		return nil, err
	}
	user, err := envelope.DecodeOne[models.User](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &user, nil
}

func decodeToken(body []byte, fallback string) (*TokenResponse, error) {
	var wrapped struct {
		TokenResponse
		Data *TokenResponse `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, &apiclient.RequestFailure{Status: http.StatusBadGateway, Message: fallback, Err: err}
	}
	out := wrapped.TokenResponse
	if wrapped.Data != nil && wrapped.Data.Token != "" {
		out = *wrapped.Data
	}
	if out.Token == "" {
		return nil, &apiclient.RequestFailure{Status: http.StatusBadGateway, Message: fallback, Err: fmt.Errorf("no token in response")}
	}
	return &out, nil
}
