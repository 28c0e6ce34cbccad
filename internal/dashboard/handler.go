// Package dashboard serves the home page and the health check.
package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ping-crm/dashboard/internal/auth"
	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/internal/repository"
	"github.com/ping-crm/dashboard/internal/view"
	"github.com/ping-crm/dashboard/pkg/response"
)

// Handler serves the dashboard.
type Handler struct {
	orgs     *repository.Repository[models.Organization]
	contacts *repository.Repository[models.Contact]
	logger   *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(orgs *repository.Repository[models.Organization], contacts *repository.Repository[models.Contact], logger *zap.Logger) *Handler {
	return &Handler{orgs: orgs, contacts: contacts, logger: logger}
}

// Home handles GET /. Counts that cannot be loaded are shown as "-".
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	data := map[string]any{"Organizations": "-", "Contacts": "-"}
	orgs, err := h.orgs.List(ctx, "")
	switch {
	case err == nil:
		data["Organizations"] = len(orgs)
	case auth.Expired(c, err):
		return
	default:
		h.logger.Warn("count organizations", zap.Error(err))
	}
	if contacts, err := h.contacts.List(ctx, ""); err == nil {
		data["Contacts"] = len(contacts)
	} else {
		h.logger.Warn("count contacts", zap.Error(err))
	}
	c.HTML(http.StatusOK, "dashboard.html", view.Page{
		Title:  "Dashboard",
		Active: "dashboard",
		User:   auth.UserOf(c),
		Data:   data,
	})
}

// Health handles GET /health.
func Health(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"})
}
