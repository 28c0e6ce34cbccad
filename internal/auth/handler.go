package auth

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ping-crm/dashboard/internal/view"
)

const (
	msgMissingFields   = "Please fill in all fields"
	msgShortPassword   = "Password must be at least 8 characters long"
	msgPasswordsDiffer = "Passwords do not match"
)

// Handler serves the login, register and logout pages.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// LoginPage handles GET /login.
func (h *Handler) LoginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", "Login", "", gin.H{})
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	in := Credentials{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	data := map[string]any{"Email": in.Email}
	if in.Email == "" || in.Password == "" {
		h.render(c, http.StatusUnprocessableEntity, "login.html", "Login", msgMissingFields, data)
		return
	}
	sess := FromContext(c)
	if _, err := sess.Login(c.Request.Context(), in); err != nil {
		h.logger.Info("login rejected", zap.String("email", in.Email), zap.Error(err))
		h.render(c, http.StatusUnprocessableEntity, "login.html", "Login", sess.LastError, data)
	}
}

// RegisterPage handles GET /register.
func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", "Register", "", gin.H{})
}

// Register handles POST /register.
func (h *Handler) Register(c *gin.Context) {
	in := Registration{
		Name:                 strings.TrimSpace(c.PostForm("name")),
		Email:                strings.TrimSpace(c.PostForm("email")),
		Password:             c.PostForm("password"),
		PasswordConfirmation: c.PostForm("password_confirmation"),
	}
	data := map[string]any{"Name": in.Name, "Email": in.Email}
	if msg := checkRegistration(in); msg != "" {
		h.render(c, http.StatusUnprocessableEntity, "register.html", "Register", msg, data)
		return
	}
	sess := FromContext(c)
	if _, err := sess.Register(c.Request.Context(), in); err != nil {
		h.logger.Info("registration rejected", zap.String("email", in.Email), zap.Error(err))
		h.render(c, http.StatusUnprocessableEntity, "register.html", "Register", sess.LastError, data)
	}
}

// Logout handles POST /logout.
func (h *Handler) Logout(c *gin.Context) {
	FromContext(c).Logout(c.Request.Context())
}

func checkRegistration(in Registration) string {
	switch {
	case in.Name == "" || in.Email == "" || in.Password == "" || in.PasswordConfirmation == "":
		return msgMissingFields
	case utf8.RuneCountInString(in.Password) < 8:
		return msgShortPassword
	case in.Password != in.PasswordConfirmation:
		return msgPasswordsDiffer
	}
	return ""
}

func (h *Handler) render(c *gin.Context, status int, name, title, errMsg string, data map[string]any) {
	c.HTML(status, name, view.Page{Title: title, Error: errMsg, Data: data})
}
