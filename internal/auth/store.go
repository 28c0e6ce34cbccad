package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie holding the sealed API token.
const CookieName = "auth_token"

// TokenStore persists the API token between requests of one browser.
type TokenStore interface {
	Token() (string, bool)
	SetToken(token string) error
	ClearToken()
}

// CookieOptions configures the session cookie.
type CookieOptions struct {
	MaxAge int
	Secure bool
}

// CookieStore keeps the token in a sealed, HttpOnly cookie.
type CookieStore struct {
	c      *gin.Context
	sealer *Sealer
	opts   CookieOptions

	token  string
	loaded bool
}

// NewCookieStore creates a store bound to one request.
func NewCookieStore(c *gin.Context, sealer *Sealer, opts CookieOptions) *CookieStore {
	return &CookieStore{c: c, sealer: sealer, opts: opts}
}

// Token returns the stored token. A cookie that fails to open is cleared.
func (s *CookieStore) Token() (string, bool) {
	if !s.loaded {
		s.loaded = true
		if raw, err := s.c.Cookie(CookieName); err == nil && raw != "" {
			token, err := s.sealer.Open(raw)
			if err != nil {
				s.ClearToken()
				return "", false
			}
			s.token = token
		}
	}
	return s.token, s.token != ""
}

// SetToken stores token for the following requests.
func (s *CookieStore) SetToken(token string) error {
	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return err
	}
	s.write(sealed, s.opts.MaxAge)
	s.token, s.loaded = token, true
	return nil
}

// ClearToken removes the cookie.
func (s *CookieStore) ClearToken() {
	s.write("", -1)
	s.token, s.loaded = "", true
}

func (s *CookieStore) write(value string, maxAge int) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(CookieName, value, maxAge, "/", "", s.opts.Secure, true)
}
