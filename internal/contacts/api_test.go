package contacts_test

import (
	"encoding/json"
	"net/http"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ping-crm/dashboard/internal/webtest"
)

type body struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func decode(raw []byte) body {
	var b body
	Expect(json.Unmarshal(raw, &b)).To(Succeed())
	return b
}

var _ = Describe("Contacts JSON proxy", func() {
	var app *webtest.App

	BeforeEach(func() {
		app = webtest.New()
		DeferCleanup(app.Close)
		app.Login()
	})

	It("creates with 201", func() {
		rec := app.JSON(http.MethodPost, "/api/contacts", `{
			"first_name":"Ada","last_name":"Lovelace","organization_id":1,
			"email":"ada@acme.test","phone":"5550100","address":"1 Main",
			"city":"London","province":"LDN","country":"United Kingdom","postal_code":"N1"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(decode(rec.Body.Bytes()).Success).To(BeTrue())
		Expect(app.Stub.Requests(http.MethodPost, "/api/contacts")).To(HaveLen(1))
	})

	It("requires an organization", func() {
		rec := app.JSON(http.MethodPost, "/api/contacts", `{"first_name":"Ada","last_name":"Lovelace"}`)
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(decode(rec.Body.Bytes()).Errors).To(HaveKeyWithValue("organization_id", "Please select a valid organization"))
		Expect(app.Stub.Requests(http.MethodPost, "/api/contacts")).To(BeEmpty())
	})

	It("rejects a non-numeric organization", func() {
		rec := app.JSON(http.MethodPut, "/api/contacts/1", `{"organization_id":"acme"}`)
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		Expect(decode(rec.Body.Bytes()).Errors).To(Equal(map[string]string{"organization_id": "Please select an organization"}))
	})

	It("forwards a partial update with the organization as an integer", func() {
		id := app.Stub.Seed("contacts", map[string]any{"first_name": "Ada", "city": "London", "organization_id": 1})
		rec := app.JSON(http.MethodPut, "/api/contacts/"+strconv.Itoa(id), `{"organization_id":"2"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))

		puts := app.Stub.Requests(http.MethodPut, "/api/contacts/"+strconv.Itoa(id))
		Expect(puts).To(HaveLen(1))
		Expect(puts[0].Body).To(MatchJSON(`{"organization_id":2}`))
		stored, _ := app.Stub.Record("contacts", id)
		Expect(stored).To(HaveKeyWithValue("city", "London"))
	})

	It("answers 404 for malformed ids without calling the API", func() {
		rec := app.Get("/api/contacts/abc")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(app.Stub.Requests("", "/api/contacts/abc")).To(BeEmpty())
	})

	It("deletes", func() {
		id := app.Stub.Seed("contacts", map[string]any{"first_name": "Ada"})
		rec := app.JSON(http.MethodDelete, "/api/contacts/"+strconv.Itoa(id), "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		_, ok := app.Stub.Record("contacts", id)
		Expect(ok).To(BeFalse())
	})
})
