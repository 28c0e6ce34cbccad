package contacts

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ping-crm/dashboard/internal/auth"
	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/internal/repository"
	"github.com/ping-crm/dashboard/internal/view"
	"github.com/ping-crm/dashboard/pkg/apiclient"
	"github.com/ping-crm/dashboard/pkg/response"
)

// API is the JSON proxy under /api/contacts.
type API struct {
	repo   *repository.Repository[models.Contact]
	logger *zap.Logger
}

// NewAPI creates the contacts JSON proxy.
func NewAPI(repo *repository.Repository[models.Contact], logger *zap.Logger) *API {
	return &API{repo: repo, logger: logger}
}

// List handles GET /api/contacts.
func (a *API) List(c *gin.Context) {
	items, err := a.repo.List(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		a.logger.Warn("proxy list contacts", zap.Error(err))
		a.fail(c, err)
		return
	}
	response.OK(c, items)
}

// Create handles POST /api/contacts. The body must be a complete contact.
func (a *API) Create(c *gin.Context) {
	in, ok := a.bind(c, false)
	if !ok {
		return
	}
	contact, err := a.repo.Create(c.Request.Context(), in)
	if err != nil {
		a.logger.Warn("proxy create contact", zap.Error(err))
		a.fail(c, err)
		return
	}
	response.Created(c, contact)
}

// Get handles GET /api/contacts/:id.
func (a *API) Get(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Contact not found")
		return
	}
	contact, err := a.repo.Get(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	response.OK(c, contact)
}

// Update handles PUT /api/contacts/:id. Only the fields in the body change.
func (a *API) Update(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Contact not found")
		return
	}
	in, ok := a.bind(c, true)
	if !ok {
		return
	}
	contact, err := a.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		a.logger.Warn("proxy update contact", zap.Int("id", id), zap.Error(err))
		a.fail(c, err)
		return
	}
	response.OK(c, contact)
}

// Delete handles DELETE /api/contacts/:id.
func (a *API) Delete(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Contact not found")
		return
	}
	if err := a.repo.Delete(c.Request.Context(), id); err != nil {
		a.logger.Warn("proxy delete contact", zap.Int("id", id), zap.Error(err))
		a.fail(c, err)
		return
	}
	response.OK(c, nil)
}

func (a *API) bind(c *gin.Context, partial bool) (apiclient.Fields, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return nil, false
	}
	in, errs, err := Schema.Bind(body, partial)
	if err != nil {
		response.BadRequest(c, "invalid request")
		return nil, false
	}
	if len(errs) > 0 {
		response.Unprocessable(c, "The given data was invalid.", errs)
		return nil, false
	}
	if ref, ok := in["organization_id"].(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
			in["organization_id"] = n
		}
	}
	return in, true
}

func (a *API) fail(c *gin.Context, err error) {
	auth.Revoke(c, err)
	response.Failure(c, err)
}

// Register mounts the proxy routes on r.
func (a *API) Register(r gin.IRouter) {
	r.GET("/api/contacts", a.List)
	r.POST("/api/contacts", a.Create)
	r.GET("/api/contacts/:id", a.Get)
	r.PUT("/api/contacts/:id", a.Update)
	r.DELETE("/api/contacts/:id", a.Delete)
}
