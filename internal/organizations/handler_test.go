package organizations_test

import (
	"net/http"
	"net/url"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ping-crm/dashboard/internal/apitest"
	"github.com/ping-crm/dashboard/internal/webtest"
)

func validForm() url.Values {
	return url.Values{
		"name":        {"Acme Corp"},
		"email":       {"info@acme.test"},
		"phone":       {"+1 555 0100"},
		"address":     {"1 Main Street"},
		"city":        {"Springfield"},
		"province":    {"Oregon"},
		"country":     {"United States"},
		"postal_code": {"97403"},
	}
}

var _ = Describe("Organization pages", func() {
	var app *webtest.App

	BeforeEach(func() {
		app = webtest.New()
		DeferCleanup(app.Close)
		Expect(app.Login().Code).To(Equal(http.StatusSeeOther))
	})

	Describe("list", func() {
		It("shows the no-data message when there are none", func() {
			rec := app.Get("/organizations")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("No data available."))
		})

		It("lists organizations with links to their pages", func() {
			id := app.Stub.Seed("organizations", map[string]any{"name": "Acme", "city": "Paris", "phone": "123"})
			rec := app.Get("/organizations")
			Expect(rec.Body.String()).To(ContainSubstring("Acme"))
			Expect(rec.Body.String()).To(ContainSubstring("Paris"))
			Expect(rec.Body.String()).To(ContainSubstring(`href="/organizations/` + strconv.Itoa(id) + `"`))
		})

		It("forwards the search to the API", func() {
			app.Stub.Seed("organizations", map[string]any{"name": "Acme"})
			rec := app.Get("/organizations?search=globex")
			Expect(rec.Body.String()).To(ContainSubstring("No results found."))
			Expect(rec.Body.String()).NotTo(ContainSubstring("Acme"))

			var queries []string
			for _, r := range app.Stub.Requests(http.MethodGet, "/api/organizations") {
				queries = append(queries, r.Query)
			}
			Expect(queries).To(ContainElement("search=globex"))
		})

		It("shows the API error instead of rows", func() {
			app.Stub.Fail(http.MethodGet, "/api/organizations", apitest.Failure{Status: http.StatusInternalServerError, Message: "Database unavailable"})
			rec := app.Get("/organizations")
			Expect(rec.Body.String()).To(ContainSubstring("Database unavailable"))
			Expect(rec.Body.String()).NotTo(ContainSubstring("<tbody>"))
		})

		It("ends the session when the API answers 401", func() {
			app.Stub.Fail(http.MethodGet, "/api/organizations", apitest.Failure{Status: http.StatusUnauthorized, Message: "Unauthenticated."})
			rec := app.Get("/organizations")
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/login"))
			Expect(app.SignedIn()).To(BeFalse())
		})
	})

	Describe("create", func() {
		It("renders an empty form", func() {
			rec := app.Get("/organizations/create")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Create Organization"))
			Expect(rec.Body.String()).To(ContainSubstring(`data-busy-text="Creating…"`))
			Expect(rec.Body.String()).NotTo(ContainSubstring("Delete Organization"))
		})

		It("rejects an invalid form without calling the API", func() {
			form := validForm()
			form.Set("name", "")
			form.Set("phone", "not a phone")
			rec := app.PostForm("/organizations", form)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("Name is required"))
			Expect(rec.Body.String()).To(ContainSubstring("Invalid phone number"))
			Expect(rec.Body.String()).To(ContainSubstring("Springfield"))
			Expect(app.Stub.Requests(http.MethodPost, "/api/organizations")).To(BeEmpty())
		})

		It("creates the organization and returns to the list", func() {
			rec := app.PostForm("/organizations", validForm())
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/organizations"))

			stored, ok := app.Stub.Record("organizations", 1)
			Expect(ok).To(BeTrue())
			Expect(stored).To(HaveKeyWithValue("name", "Acme Corp"))
			Expect(stored).To(HaveKeyWithValue("postal_code", "97403"))
		})

		It("keeps the form and shows the API message on failure", func() {
			app.Stub.Fail(http.MethodPost, "/api/organizations", apitest.Failure{Status: http.StatusUnprocessableEntity, Message: "The email has already been taken."})
			rec := app.PostForm("/organizations", validForm())
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(rec.Body.String()).To(ContainSubstring("The email has already been taken."))
			Expect(rec.Body.String()).To(ContainSubstring("Acme Corp"))
		})
	})

	Describe("detail", func() {
		var id int

		BeforeEach(func() {
			id = app.Stub.Seed("organizations", map[string]any{"name": "Acme", "city": "Paris", "country": "France"})
			app.Stub.Seed("contacts", map[string]any{"first_name": "Ada", "last_name": "Lovelace", "organization_id": id})
			app.Stub.Seed("contacts", map[string]any{"first_name": "Grace", "last_name": "Hopper", "organization_id": id + 100})
		})

		It("shows the form with the organization's contacts", func() {
			rec := app.Get("/organizations/" + strconv.Itoa(id))
			Expect(rec.Code).To(Equal(http.StatusOK))
			body := rec.Body.String()
			Expect(body).To(ContainSubstring(`value="Paris"`))
			Expect(body).To(ContainSubstring(`<option value="France" selected>`))
			Expect(body).To(ContainSubstring("Ada Lovelace"))
			Expect(body).NotTo(ContainSubstring("Grace Hopper"))
			Expect(body).To(ContainSubstring("Delete Organization"))
		})

		It("renders not found for an unknown id", func() {
			rec := app.Get("/organizations/999")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring("No data found."))
		})

		It("rejects ids that are not positive integers without calling the API", func() {
			for _, bad := range []string{"abc", "0", "-4"} {
				rec := app.Get("/organizations/" + bad)
				Expect(rec.Code).To(Equal(http.StatusNotFound))
			}
			Expect(app.Stub.Requests(http.MethodGet, "/api/organizations/abc")).To(BeEmpty())
		})

		It("updates and stays on the page", func() {
			form := validForm()
			form.Set("name", "Acme Renamed")
			rec := app.PostForm("/organizations/"+strconv.Itoa(id), form)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/organizations/" + strconv.Itoa(id)))

			stored, _ := app.Stub.Record("organizations", id)
			Expect(stored).To(HaveKeyWithValue("name", "Acme Renamed"))
		})
	})

	Describe("delete", func() {
		var id int

		BeforeEach(func() {
			id = app.Stub.Seed("organizations", map[string]any{"name": "Acme"})
		})

		It("asks for confirmation", func() {
			rec := app.Get("/organizations/" + strconv.Itoa(id) + "/delete")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Are you sure you want to delete this item?"))
			Expect(rec.Body.String()).To(ContainSubstring("Acme"))
		})

		It("does nothing without confirmation", func() {
			rec := app.PostForm("/organizations/"+strconv.Itoa(id)+"/delete", nil)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(app.Stub.Requests(http.MethodDelete, "")).To(BeEmpty())
			_, ok := app.Stub.Record("organizations", id)
			Expect(ok).To(BeTrue())
		})

		It("deletes when confirmed", func() {
			rec := app.PostForm("/organizations/"+strconv.Itoa(id)+"/delete", url.Values{"confirm": {"yes"}})
			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/organizations"))
			_, ok := app.Stub.Record("organizations", id)
			Expect(ok).To(BeFalse())
		})
	})
})
