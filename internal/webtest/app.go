// Package webtest drives the full router against the stub API, keeping
// cookies between requests like a browser. It is used by tests only.
package webtest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ping-crm/dashboard/config"
	"github.com/ping-crm/dashboard/internal/apitest"
	"github.com/ping-crm/dashboard/internal/auth"
	"github.com/ping-crm/dashboard/internal/server"
	"github.com/ping-crm/dashboard/pkg/cache"
)

// App is a router wired to a stub API.
type App struct {
	Stub    *apitest.Server
	Router  *gin.Engine
	cookies map[string]*http.Cookie
}

// New starts a stub API and builds the router against it.
func New() *App {
	gin.SetMode(gin.TestMode)
	stub := apitest.New()
	cfg := &config.Config{
		Server:  config.ServerConfig{Env: "test", CORSAllowedOrigins: "*"},
		API:     config.APIConfig{BaseURL: stub.URL, TimeoutSeconds: 5},
		Session: config.SessionConfig{Secret: "test-secret", ExpireHours: 1},
		Cache:   config.CacheConfig{Driver: "none"},
		OTel:    config.OTelConfig{ServiceName: "ping-crm-test"},
	}
	return &App{
		Stub:    stub,
		Router:  server.NewRouter(server.Deps{Config: cfg, Cache: cache.Nop{}}),
		cookies: map[string]*http.Cookie{},
	}
}

// Close stops the stub API.
func (a *App) Close() {
	a.Stub.Close()
}

// Login signs in with the stub's credentials.
func (a *App) Login() *httptest.ResponseRecorder {
	return a.PostForm("/login", url.Values{"email": {a.Stub.Email}, "password": {a.Stub.Password}})
}

// SignedIn reports whether the browser holds a session cookie.
func (a *App) SignedIn() bool {
	_, ok := a.cookies[auth.CookieName]
	return ok
}

// Get sends a GET.
func (a *App) Get(path string) *httptest.ResponseRecorder {
	return a.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

// PostForm sends an urlencoded POST.
func (a *App) PostForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.Do(req)
}

// JSON sends a JSON request.
func (a *App) JSON(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.Do(req)
}

// Do sends req with the stored cookies and keeps the cookies it sets.
func (a *App) Do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(a.cookies, c.Name)
			continue
		}
		a.cookies[c.Name] = c
	}
	return rec
}
