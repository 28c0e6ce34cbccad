// Package profile serves the account page of the signed-in user.
package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ping-crm/dashboard/internal/auth"
	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/internal/view"
)

var fields = []view.Field{
	{Name: "name", Label: "Name:", Kind: view.KindText, FullWidth: true},
	{Name: "email", Label: "Email:", Kind: view.KindEmail, FullWidth: true},
	{Name: "password", Label: "Password:", Kind: view.KindPassword, Placeholder: "Leave blank to keep current password", FullWidth: true},
}

func formConfig(title string) view.FormConfig {
	if title == "" {
		title = "User Profile"
	}
	return view.FormConfig{
		Title:       title,
		BackHref:    "/",
		BackLabel:   "Dashboard",
		Fields:      fields,
		Action:      "/profile",
		UpdateLabel: "Update Profile",
		CanUpdate:   true,
	}
}

// Handler serves /profile.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a profile handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register mounts the profile page on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/profile", h.Show)
	r.POST("/profile", h.Update)
}

// Show handles GET /profile.
func (h *Handler) Show(c *gin.Context) {
	user := auth.UserOf(c)
	state := view.FormState{Loading: user == nil}
	var title string
	if user != nil {
		title = user.Name
	}
	form := view.NewForm(formConfig(title), user, state)
	h.page(c, http.StatusOK, form, user)
}

// Update handles POST /profile. A blank password is not sent.
func (h *Handler) Update(c *gin.Context) {
	sess := auth.FromContext(c)
	if err := c.Request.ParseForm(); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	form := view.NewForm(formConfig(sess.User.Name), sess.User, view.FormState{})
	form.Bind(c.Request.PostForm)
	if !form.Validate() {
		h.page(c, http.StatusUnprocessableEntity, form, sess.User)
		return
	}
	in, err := view.Decode[models.ProfileUpdate](form)
	if err == nil {
		_, err = sess.UpdateProfile(c.Request.Context(), in)
	}
	if err != nil {
		if auth.Expired(c, err) {
			return
		}
		h.logger.Warn("update profile", zap.Error(err))
		form.Fail(err)
		h.page(c, view.FailureStatus(err), form, sess.User)
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *Handler) page(c *gin.Context, status int, form *view.Form, user *models.User) {
	c.HTML(status, "detail.html", view.Page{Title: form.Title(), Active: "profile", User: user, Form: form})
}
