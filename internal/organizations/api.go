package organizations

import (
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

// API is the JSON proxy under /api/organizations.
type API struct {
	repo   *repository.Repository[models.Organization]
	logger *zap.Logger
}

// NewAPI creates the organizations JSON proxy.
func NewAPI(repo *repository.Repository[models.Organization], logger *zap.Logger) *API {
	return &API{repo: repo, logger: logger}
}

// List handles GET /api/organizations.
func (a *API) List(c *gin.Context) {
	items, err := a.repo.List(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		a.logger.Warn("proxy list organizations", zap.Error(err))
		a.fail(c, err)
		return
	}
	response.OK(c, items)
}

// Create handles POST /api/organizations. The body must be a complete organization.
func (a *API) Create(c *gin.Context) {
	in, ok := a.bind(c, false)
	if !ok {
		return
	}
	org, err := a.repo.Create(c.Request.Context(), in)
	if err != nil {
		a.logger.Warn("proxy create organization", zap.Error(err))
		a.fail(c, err)
		return
	}
	response.Created(c, org)
}

// Get handles GET /api/organizations/:id.
func (a *API) Get(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Organization not found")
		return
	}
	org, err := a.repo.Get(c.Request.Context(), id)
	if err != nil {
		a.fail(c, err)
		return
	}
	response.OK(c, org)
}

// Update handles PUT /api/organizations/:id. Only the fields in the body change.
func (a *API) Update(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Organization not found")
		return
	}
	in, ok := a.bind(c, true)
	if !ok {
		return
	}
	org, err := a.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		a.logger.Warn("proxy update organization", zap.Int("id", id), zap.Error(err))
		a.fail(c, err)
		return
	}
	response.OK(c, org)
}

// Delete handles DELETE /api/organizations/:id.
func (a *API) Delete(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		response.NotFound(c, "Organization not found")
		return
	}
	if err := a.repo.Delete(c.Request.Context(), id); err != nil {
		a.logger.Warn("proxy delete organization", zap.Int("id", id), zap.Error(err))
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
	return in, true
}

func (a *API) fail(c *gin.Context, err error) {
	auth.Revoke(c, err)
	response.Failure(c, err)
}

// Register mounts the proxy routes on r.
func (a *API) Register(r gin.IRouter) {
	r.GET("/api/organizations", a.List)
	r.POST("/api/organizations", a.Create)
	r.GET("/api/organizations/:id", a.Get)
	r.PUT("/api/organizations/:id", a.Update)
	r.DELETE("/api/organizations/:id", a.Delete)
}
