package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ping-crm/dashboard/internal/auth"
	"github.com/ping-crm/dashboard/pkg/apiclient"
	"github.com/ping-crm/dashboard/pkg/response"
)

// Session restores the browser session and puts its API token on the
// request context, so every API call made for this request is authorized.
func Session(manager *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := manager.NewSession(manager.CookieStore(c), func(path string) {
			c.Redirect(http.StatusSeeOther, path)
		})
		sess.Init(c.Request.Context())
		auth.Attach(c, sess)
		c.Request = c.Request.WithContext(apiclient.WithToken(c.Request.Context(), sess.Token()))
		c.Next()
	}
}

// RequireAuth sends signed-out browsers to the login page. JSON callers get 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := auth.FromContext(c); sess != nil && sess.IsAuthenticated() {
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			response.Unauthorized(c, "Unauthenticated.")
			c.Abort()
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

// RequireGuest sends signed-in browsers away from the login and register pages.
func RequireGuest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := auth.FromContext(c); sess != nil && sess.IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
