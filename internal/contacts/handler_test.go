package contacts_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ping-crm/dashboard/internal/webtest"
)

var _ = Describe("Contact pages", func() {
	var (
		app   *webtest.App
		orgID int
	)

	validForm := func() url.Values {
		return url.Values{
			"first_name":      {"Ada"},
			"last_name":       {"Lovelace"},
			"email":           {"ada@acme.test"},
			"phone":           {"555-0100"},
			"organization_id": {strconv.Itoa(orgID)},
			"address":         {"1 Main Street"},
			"city":            {"London"},
			"province":        {"Greater London"},
			"country":         {"United Kingdom"},
			"postal_code":     {"N1 9GU"},
		}
	}

	BeforeEach(func() {
		app = webtest.New()
		DeferCleanup(app.Close)
		orgID = app.Stub.Seed("organizations", map[string]any{"name": "Acme"})
		Expect(app.Login().Code).To(Equal(http.StatusSeeOther))
	})

	It("lists contacts with the organization name, or its id when unknown", func() {
		app.Stub.Seed("contacts", map[string]any{"first_name": "Ada", "last_name": "Lovelace", "organization_id": orgID, "city": "London"})
		app.Stub.Seed("contacts", map[string]any{"first_name": "Grace", "last_name": "Hopper", "organization_id": 4242})
		rec := app.Get("/contacts")
		body := rec.Body.String()
		Expect(body).To(ContainSubstring("Ada Lovelace"))
		Expect(body).To(ContainSubstring("<td>Acme</td>"))
		Expect(body).To(ContainSubstring("<td>4242</td>"))
	})

	It("offers the organizations in the form", func() {
		rec := app.Get("/contacts/create")
		Expect(rec.Body.String()).To(ContainSubstring(`<option value="` + strconv.Itoa(orgID) + `" >Acme</option>`))
		Expect(rec.Body.String()).To(ContainSubstring("Select an organization"))
	})

	It("rejects a contact without an organization before calling the API", func() {
		form := validForm()
		form.Del("organization_id")
		rec := app.PostForm("/contacts", form)
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(rec.Body.String()).To(ContainSubstring("Please select a valid organization"))
		Expect(app.Stub.Requests(http.MethodPost, "/api/contacts")).To(BeEmpty())
	})

	It("sends the organization as an integer", func() {
		rec := app.PostForm("/contacts", validForm())
		Expect(rec.Code).To(Equal(http.StatusSeeOther))
		Expect(rec.Header().Get("Location")).To(Equal("/contacts"))

		posts := app.Stub.Requests(http.MethodPost, "/api/contacts")
		Expect(posts).To(HaveLen(1))
		var sent map[string]any
		Expect(json.Unmarshal(posts[0].Body, &sent)).To(Succeed())
		Expect(sent).To(HaveKeyWithValue("organization_id", BeNumerically("==", orgID)))
		Expect(sent).To(HaveKeyWithValue("first_name", "Ada"))
	})

	It("titles the detail page with the full name and selects the organization", func() {
		id := app.Stub.Seed("contacts", map[string]any{"first_name": "Ada", "last_name": "Lovelace", "organization_id": orgID})
		rec := app.Get("/contacts/" + strconv.Itoa(id))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("<h2>Ada Lovelace</h2>"))
		Expect(rec.Body.String()).To(ContainSubstring(`<option value="` + strconv.Itoa(orgID) + `" selected>Acme</option>`))
		Expect(rec.Body.String()).To(ContainSubstring(`data-busy-text="Updating…"`))
	})

	It("updates a contact", func() {
		id := app.Stub.Seed("contacts", map[string]any{"first_name": "Ada", "organization_id": orgID})
		form := validForm()
		form.Set("city", "Cambridge")
		rec := app.PostForm("/contacts/"+strconv.Itoa(id), form)
		Expect(rec.Code).To(Equal(http.StatusSeeOther))
		stored, _ := app.Stub.Record("contacts", id)
		Expect(stored).To(HaveKeyWithValue("city", "Cambridge"))
	})

	It("deletes a contact after confirmation", func() {
		id := app.Stub.Seed("contacts", map[string]any{"first_name": "Ada", "organization_id": orgID})
		rec := app.PostForm("/contacts/"+strconv.Itoa(id)+"/delete", url.Values{"confirm": {"yes"}})
		Expect(rec.Code).To(Equal(http.StatusSeeOther))
		Expect(rec.Header().Get("Location")).To(Equal("/contacts"))
		_, ok := app.Stub.Record("contacts", id)
		Expect(ok).To(BeFalse())
	})

	It("proxies the contact list as JSON", func() {
		app.Stub.Seed("contacts", map[string]any{"first_name": "Ada", "organization_id": orgID})
		rec := app.Get("/api/contacts")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"first_name":"Ada"`))
	})
})
