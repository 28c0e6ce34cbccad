// Package contacts serves the contact pages and JSON proxy.
package contacts

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ping-crm/dashboard/internal/auth"
	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/internal/repository"
	"github.com/ping-crm/dashboard/internal/view"
	"github.com/ping-crm/dashboard/pkg/apiclient"
)

const basePath = "/contacts"

// Handler serves the contact pages.
type Handler struct {
	repo   *repository.Repository[models.Contact]
	orgs   *repository.Repository[models.Organization]
	logger *zap.Logger
}

// NewHandler creates a contacts handler. orgs feeds the organization select
// and the organization column.
func NewHandler(repo *repository.Repository[models.Contact], orgs *repository.Repository[models.Organization], logger *zap.Logger) *Handler {
	return &Handler{repo: repo, orgs: orgs, logger: logger}
}

// Register mounts the contact pages on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET(basePath, h.List)
	r.GET(basePath+"/create", h.New)
	r.POST(basePath, h.Create)
	r.GET(basePath+"/:id", h.Show)
	r.POST(basePath+"/:id", h.Update)
	r.GET(basePath+"/:id/delete", h.ConfirmDelete)
	r.POST(basePath+"/:id/delete", h.Delete)
}

// List handles GET /contacts. The search term is forwarded to the API.
func (h *Handler) List(c *gin.Context) {
	term := strings.TrimSpace(c.Query("search"))
	items, err := h.repo.List(c.Request.Context(), term)
	state := view.TableState{Search: term}
	if err != nil {
		if auth.Expired(c, err) {
			return
		}
		h.logger.Warn("list contacts", zap.Error(err))
		state.Error = view.Message(err)
	}
	orgs := h.organizations(c)
	h.page(c, http.StatusOK, "list.html", "Contacts", view.Page{Table: view.NewTable(table(orgs), items, state)})
}

// New handles GET /contacts/create.
func (h *Handler) New(c *gin.Context) {
	form := view.NewForm[models.Contact](createForm(h.organizations(c)), nil, view.FormState{})
	h.page(c, http.StatusOK, "detail.html", "Create Contact", view.Page{Form: form})
}

// Create handles POST /contacts. A contact without an organization is
// rejected before any API call.
func (h *Handler) Create(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	form := view.NewForm[models.Contact](createForm(h.organizations(c)), nil, view.FormState{})
	form.Bind(c.Request.PostForm)
	if !form.Validate() {
		h.page(c, http.StatusUnprocessableEntity, "detail.html", "Create Contact", view.Page{Form: form})
		return
	}
	if _, err := h.repo.Create(c.Request.Context(), view.Payload(form)); err != nil {
		if auth.Expired(c, err) {
			return
		}
		h.logger.Warn("create contact", zap.Error(err))
		form.Fail(err)
		h.page(c, view.FailureStatus(err), "detail.html", "Create Contact", view.Page{Form: form})
		return
	}
	c.Redirect(http.StatusSeeOther, basePath)
}

// Show handles GET /contacts/:id.
func (h *Handler) Show(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		h.notFound(c, 0)
		return
	}
	contact, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if auth.Expired(c, err) {
			return
		}
		if apiclient.IsStatus(err, http.StatusNotFound) {
			h.notFound(c, id)
			return
		}
		h.logger.Warn("get contact", zap.Int("id", id), zap.Error(err))
		form := view.NewForm[models.Contact](editForm(id, "", nil), nil, view.FormState{Error: view.Message(err)})
		h.page(c, view.FailureStatus(err), "detail.html", "Contact", view.Page{Form: form})
		return
	}
	form := view.NewForm(editForm(id, contact.FullName(), h.organizations(c)), contact, view.FormState{})
	h.page(c, http.StatusOK, "detail.html", form.Title(), view.Page{Form: form})
}

// Update handles POST /contacts/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		h.notFound(c, 0)
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	post := c.Request.PostForm
	title := strings.TrimSpace(post.Get("first_name") + " " + post.Get("last_name"))
	form := view.NewForm(editForm(id, title, h.organizations(c)), &models.Contact{ID: id}, view.FormState{})
	form.Bind(post)
	if !form.Validate() {
		h.page(c, http.StatusUnprocessableEntity, "detail.html", form.Title(), view.Page{Form: form})
		return
	}
	if _, err := h.repo.Update(c.Request.Context(), id, view.Payload(form)); err != nil {
		if auth.Expired(c, err) {
			return
		}
		h.logger.Warn("update contact", zap.Int("id", id), zap.Error(err))
		form.Fail(err)
		h.page(c, view.FailureStatus(err), "detail.html", form.Title(), view.Page{Form: form})
		return
	}
	c.Redirect(http.StatusSeeOther, view.DetailHref(basePath, id))
}

// ConfirmDelete handles GET /contacts/:id/delete.
func (h *Handler) ConfirmDelete(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		h.notFound(c, 0)
		return
	}
	contact, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if auth.Expired(c, err) {
			return
		}
		if apiclient.IsStatus(err, http.StatusNotFound) {
			h.notFound(c, id)
			return
		}
		h.confirm(c, view.FailureStatus(err), id, "", view.Message(err))
		return
	}
	h.confirm(c, http.StatusOK, id, contact.FullName(), "")
}

// Delete handles POST /contacts/:id/delete. Without confirm=yes nothing is
// deleted.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		h.notFound(c, 0)
		return
	}
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, view.DetailHref(basePath, id)+"/delete")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if auth.Expired(c, err) {
			return
		}
		h.logger.Warn("delete contact", zap.Int("id", id), zap.Error(err))
		h.confirm(c, view.FailureStatus(err), id, "", view.Message(err))
		return
	}
	c.Redirect(http.StatusSeeOther, basePath)
}

// organizations loads the select choices. A failure leaves the select empty.
func (h *Handler) organizations(c *gin.Context) []models.Organization {
	orgs, err := h.orgs.List(c.Request.Context(), "")
	if err != nil {
		h.logger.Warn("list organizations for contacts", zap.Error(err))
		return nil
	}
	return orgs
}

func (h *Handler) notFound(c *gin.Context, id int) {
	form := view.NewForm[models.Contact](editForm(id, "", nil), nil, view.FormState{})
	h.page(c, http.StatusNotFound, "detail.html", "Contact", view.Page{Form: form})
}

func (h *Handler) confirm(c *gin.Context, status, id int, name, errMsg string) {
	href := view.DetailHref(basePath, id)
	h.page(c, status, "confirm.html", "Delete Contact", view.Page{
		Error: errMsg,
		Data:  map[string]any{"Name": name, "Action": href + "/delete", "CancelHref": href},
	})
}

func (h *Handler) page(c *gin.Context, status int, name, title string, p view.Page) {
	p.Title = title
	p.Active = "contacts"
	p.User = auth.UserOf(c)
	c.HTML(status, name, p)
}
