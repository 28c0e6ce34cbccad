// Package organizations serves the organization pages and JSON proxy.
package organizations

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

const basePath = "/organizations"

var table = view.TableConfig[models.Organization]{
	Title: "Organizations",
	Columns: []view.Column[models.Organization]{
		{Key: "name", Label: "Name"},
		{Key: "city", Label: "City"},
		{Key: "phone", Label: "Phone"},
	},
	SearchKeys:        []string{"name", "city", "phone"},
	SearchPlaceholder: "Search...",
	CreateLabel:       "Create Organization",
	CreateHref:        basePath + "/create",
	BasePath:          basePath,
	RowHref:           func(o models.Organization) string { return view.DetailHref(basePath, o.ID) },
}

var relatedContacts = view.TableConfig[models.Contact]{
	Title: "Contacts",
	Columns: []view.Column[models.Contact]{
		{Key: "name", Label: "Name", Render: models.Contact.FullName},
		{Key: "city", Label: "City"},
		{Key: "phone", Label: "Phone"},
	},
	RowHref: func(c models.Contact) string { return view.DetailHref("/contacts", c.ID) },
}

// Handler serves the organization pages.
type Handler struct {
	repo     *repository.Repository[models.Organization]
	contacts *repository.Repository[models.Contact]
	logger   *zap.Logger
}

// NewHandler creates an organizations handler.
func NewHandler(repo *repository.Repository[models.Organization], contacts *repository.Repository[models.Contact], logger *zap.Logger) *Handler {
	return &Handler{repo: repo, contacts: contacts, logger: logger}
}

// List handles GET /organizations. The search term is forwarded to the API.
func (h *Handler) List(c *gin.Context) {
	term := strings.TrimSpace(c.Query("search"))
	items, err := h.repo.List(c.Request.Context(), term)
	state := view.TableState{Search: term}
	if err != nil {
		if auth.Expired(c, err) {
			return
		}
		h.logger.Warn("list organizations", zap.Error(err))
		state.Error = view.Message(err)
	}
	h.page(c, http.StatusOK, "list.html", "Organizations", view.Page{Table: view.NewTable(table, items, state)})
}

// New handles GET /organizations/create.
func (h *Handler) New(c *gin.Context) {
	form := view.NewForm[models.Organization](createForm(), nil, view.FormState{})
	h.page(c, http.StatusOK, "detail.html", "Create Organization", view.Page{Form: form})
}

// Create handles POST /organizations.
func (h *Handler) Create(c *gin.Context) {
	form := view.NewForm[models.Organization](createForm(), nil, view.FormState{})
	if err := c.Request.ParseForm(); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	form.Bind(c.Request.PostForm)
	if !form.Validate() {
		h.page(c, http.StatusUnprocessableEntity, "detail.html", "Create Organization", view.Page{Form: form})
		return
	}
	if _, err := h.repo.Create(c.Request.Context(), view.Payload(form)); err != nil {
		if auth.Expired(c, err) {
			return
		}
		h.logger.Warn("create organization", zap.Error(err))
		form.Fail(err)
		h.page(c, view.FailureStatus(err), "detail.html", "Create Organization", view.Page{Form: form})
		return
	}
	c.Redirect(http.StatusSeeOther, basePath)
}

// Show handles GET /organizations/:id with the contacts of the organization.
func (h *Handler) Show(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		h.notFound(c, 0)
		return
	}
	org, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if auth.Expired(c, err) {
			return
		}
		if apiclient.IsStatus(err, http.StatusNotFound) {
			h.notFound(c, id)
			return
		}
		h.logger.Warn("get organization", zap.Int("id", id), zap.Error(err))
		form := view.NewForm[models.Organization](editForm(id, ""), nil, view.FormState{Error: view.Message(err)})
		h.page(c, view.FailureStatus(err), "detail.html", "Organization", view.Page{Form: form})
		return
	}
	form := view.NewForm(editForm(id, org.Name), org, view.FormState{})
	form.Children = append(form.Children, h.related(c, id))
	h.page(c, http.StatusOK, "detail.html", form.Title(), view.Page{Form: form})
}

// Update handles POST /organizations/:id.
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
	form := view.NewForm(editForm(id, c.Request.PostForm.Get("name")), &models.Organization{ID: id}, view.FormState{})
	form.Bind(c.Request.PostForm)
	if !form.Validate() {
		h.page(c, http.StatusUnprocessableEntity, "detail.html", form.Title(), view.Page{Form: form})
		return
	}
	if _, err := h.repo.Update(c.Request.Context(), id, view.Payload(form)); err != nil {
		if auth.Expired(c, err) {
			return
		}
		h.logger.Warn("update organization", zap.Int("id", id), zap.Error(err))
		form.Fail(err)
		h.page(c, view.FailureStatus(err), "detail.html", form.Title(), view.Page{Form: form})
		return
	}
	c.Redirect(http.StatusSeeOther, view.DetailHref(basePath, id))
}

// ConfirmDelete handles GET /organizations/:id/delete.
func (h *Handler) ConfirmDelete(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		h.notFound(c, 0)
		return
	}
	org, err := h.repo.Get(c.Request.Context(), id)
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
	h.confirm(c, http.StatusOK, id, org.Name, "")
}

// Delete handles POST /organizations/:id/delete. Without confirm=yes nothing
// is deleted and the browser goes back to the confirmation page.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := view.ParseID(c.Param("id"))
	if !ok {
		h.notFound(c, 0)
		return
	}
	href := view.DetailHref(basePath, id)
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, href+"/delete")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if auth.Expired(c, err) {
			return
		}
		h.logger.Warn("delete organization", zap.Int("id", id), zap.Error(err))
		h.confirm(c, view.FailureStatus(err), id, "", view.Message(err))
		return
	}
	c.Redirect(http.StatusSeeOther, basePath)
}

func (h *Handler) related(c *gin.Context, id int) *view.Table {
	all, err := h.contacts.List(c.Request.Context(), "")
	if err != nil {
		h.logger.Warn("list related contacts", zap.Int("organization_id", id), zap.Error(err))
		return view.NewTable(relatedContacts, nil, view.TableState{Error: "Error loading contacts"})
	}
	var related []models.Contact
	for _, contact := range all {
		if contact.OrganizationID == id {
			related = append(related, contact)
		}
	}
	return view.NewTable(relatedContacts, related, view.TableState{})
}

func (h *Handler) notFound(c *gin.Context, id int) {
	form := view.NewForm[models.Organization](editForm(id, ""), nil, view.FormState{})
	h.page(c, http.StatusNotFound, "detail.html", "Organization", view.Page{Form: form})
}

func (h *Handler) confirm(c *gin.Context, status, id int, name, errMsg string) {
	href := view.DetailHref(basePath, id)
	h.page(c, status, "confirm.html", "Delete Organization", view.Page{
		Error: errMsg,
		Data:  map[string]any{"Name": name, "Action": href + "/delete", "CancelHref": href},
	})
}

func (h *Handler) page(c *gin.Context, status int, name, title string, p view.Page) {
	p.Title = title
	p.Active = "organizations"
	p.User = auth.UserOf(c)
	c.HTML(status, name, p)
}

// Register mounts the organization pages on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET(basePath, h.List)
	r.GET(basePath+"/create", h.New)
	r.POST(basePath, h.Create)
	r.GET(basePath+"/:id", h.Show)
	r.POST(basePath+"/:id", h.Update)
	r.GET(basePath+"/:id/delete", h.ConfirmDelete)
	r.POST(basePath+"/:id/delete", h.Delete)
}
