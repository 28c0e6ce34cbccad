// Package auth manages the browser session against the remote API.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/pkg/apiclient"
)

const contextSession = "session"

// Navigator sends the browser to path after login, register and logout.
type Navigator func(path string)

// Manager creates per-request sessions.
type Manager struct {
	repo    *Repository
	sealer  *Sealer
	cookies CookieOptions
	logger  *zap.Logger
}

// NewManager creates a session manager.
func NewManager(repo *Repository, sealer *Sealer, cookies CookieOptions, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{repo: repo, sealer: sealer, cookies: cookies, logger: logger}
}

// CookieStore returns the cookie token store of c.
func (m *Manager) CookieStore(c *gin.Context) *CookieStore {
	return NewCookieStore(c, m.sealer, m.cookies)
}

// NewSession creates a session that is not yet initialized.
func (m *Manager) NewSession(store TokenStore, nav Navigator) *Session {
	if nav == nil {
		nav = func(string) {}
	}
	return &Session{repo: m.repo, store: store, nav: nav, logger: m.logger}
}

// Session is the authentication state of one browser.
type Session struct {
	User      *models.User
	Loading   bool
	LastError string

	repo   *Repository
	store  TokenStore
	nav    Navigator
	logger *zap.Logger
}

// Init restores the user from a stored token. A token the API rejects is
// discarded; that is not an error.
func (s *Session) Init(ctx context.Context) {
	s.Loading = true
	defer func() { s.Loading = false }()

	token, ok := s.store.Token()
	if !ok {
		return
	}
	user, err := s.repo.Profile(apiclient.WithToken(ctx, token))
	if err != nil {
		s.logger.Debug("stored token rejected", zap.Int("status", apiclient.StatusOf(err)), zap.Error(err))
		s.store.ClearToken()
		return
	}
	s.User = user
}

// Token returns the API token of the session, if any.
func (s *Session) Token() string {
	token, _ := s.store.Token()
	return token
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	return s.User != nil
}

// Login signs in and navigates to "/". On failure LastError holds the
// message and the user stays signed out.
func (s *Session) Login(ctx context.Context, in Credentials) (*models.User, error) {
	return s.authenticate(ctx, "Login failed", func(ctx context.Context) (*TokenResponse, error) {
		return s.repo.Login(ctx, in)
	})
}

// Register creates an account, signs in and navigates to "/".
func (s *Session) Register(ctx context.Context, in Registration) (*models.User, error) {
	return s.authenticate(ctx, "Registration failed", func(ctx context.Context) (*TokenResponse, error) {
		return s.repo.Register(ctx, in)
	})
}

func (s *Session) authenticate(ctx context.Context, fallback string, call func(context.Context) (*TokenResponse, error)) (*models.User, error) {
	s.LastError = ""
	s.Loading = true
	defer func() { s.Loading = false }()

	resp, err := call(ctx)
	if err != nil {
		failure := asFailure(err, fallback)
		s.LastError = failure.Message
		return nil, failure
	}
	if err := s.store.SetToken(resp.Token); err != nil {
		failure := asFailure(err, fallback)
		s.LastError = failure.Message
		return nil, failure
	}
	user := resp.User
	s.User = &user
	s.nav("/")
	return s.User, nil
}

// Logout revokes the token upstream when possible, then always forgets it
// and navigates to "/login".
func (s *Session) Logout(ctx context.Context) {
	if token, ok := s.store.Token(); ok {
		if err := s.repo.Logout(apiclient.WithToken(ctx, token)); err != nil {
			s.logger.Warn("logout failed", zap.Error(err))
		}
	}
	s.store.ClearToken()
	s.User = nil
	s.nav("/login")
}

// Expire forgets a token the API no longer accepts and navigates to "/login".
func (s *Session) Expire() {
	s.Revoke()
	s.nav("/login")
}

// Revoke drops the token and user without navigating.
func (s *Session) Revoke() {
	s.store.ClearToken()
	s.User = nil
}

// UpdateProfile changes the signed-in user's account.
func (s *Session) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (*models.User, error) {
	token, _ := s.store.Token()
	user, err := s.repo.UpdateProfile(apiclient.WithToken(ctx, token), in)
	if err != nil {
		return nil, err
	}
	if user.ID == 0 && s.User != nil {
		user.ID = s.User.ID
	}
	s.User = user
	return user, nil
}

// Attach stores the session on c.
func Attach(c *gin.Context, s *Session) {
	c.Set(contextSession, s)
}

// FromContext returns the session attached to c, or nil.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextSession)
	if !ok {
		return nil
	}
	s, _ := v.(*Session)
	return s
}

// UserOf returns the signed-in user of c, or nil.
func UserOf(c *gin.Context) *models.User {
	if s := FromContext(c); s != nil {
		return s.User
	}
	return nil
}

// Expired answers a request whose API call was rejected with 401 by ending
// the session. It reports whether it did so.
func Expired(c *gin.Context, err error) bool {
	if !apiclient.IsStatus(err, http.StatusUnauthorized) {
		return false
	}
	if s := FromContext(c); s != nil {
		s.Expire()
	} else {
		c.Redirect(http.StatusSeeOther, "/login")
	}
	c.Abort()
	return true
}

// Revoke ends the session of a JSON request whose API call was rejected with
// 401. The caller still writes the response.
func Revoke(c *gin.Context, err error) bool {
	if !apiclient.IsStatus(err, http.StatusUnauthorized) {
		return false
	}
	if s := FromContext(c); s != nil {
		s.Revoke()
	}
	return true
}

func asFailure(err error, fallback string) *apiclient.RequestFailure {
	var rf *apiclient.RequestFailure
	if errors.As(err, &rf) {
		if rf.Message == "" {
			return &apiclient.RequestFailure{Status: rf.Status, Message: fallback, Err: rf.Err}
		}
		return rf
	}
	return &apiclient.RequestFailure{Status: http.StatusInternalServerError, Message: fallback, Err: err}
}
