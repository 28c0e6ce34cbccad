package view_test

import (
	"regexp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ping-crm/dashboard/internal/view"
	"github.com/ping-crm/dashboard/pkg/apiclient"
)

var _ = Describe("Schema", func() {
	schema := view.NewSchema(
		view.Rules("name", view.Required("Name is required"), view.MaxLen(5, "Too long")),
		view.Rules("email", view.Email("Invalid email")),
		view.Rules("phone", view.Pattern(regexp.MustCompile(`^\d*$`), "Digits only")),
		view.Rules("organization_id", view.PositiveInt("Pick an organization")),
		view.Rules("password", view.MinLen(8, "Too short")),
	)

	It("accepts a valid field set", func() {
		errs := schema.Validate(map[string]string{
			"name": "Acme", "email": "a@b.co", "phone": "123", "organization_id": "4", "password": "12345678",
		})
		Expect(errs).To(BeEmpty())
	})

	It("reports the first failing rule of each field", func() {
		errs := schema.Validate(map[string]string{
			"name": "", "email": "nope", "phone": "12a", "organization_id": "0", "password": "short",
		})
		Expect(errs).To(Equal(map[string]string{
			"name":            "Name is required",
			"email":           "Invalid email",
			"phone":           "Digits only",
			"organization_id": "Pick an organization",
			"password":        "Too short",
		}))
	})

	DescribeTable("PositiveInt",
		func(value string, ok bool) {
			errs := view.NewSchema(view.Rules("id", view.PositiveInt("bad"))).Validate(map[string]string{"id": value})
			Expect(errs).To(HaveLen(map[bool]int{true: 0, false: 1}[ok]))
		},
		Entry("positive", "12", true),
		Entry("empty", "", false),
		Entry("negative", "-3", false),
		Entry("text", "abc", false),
	)

	It("tells non-numeric references apart from missing ones", func() {
		ref := view.NewSchema(view.Rules("organization_id",
			view.Number("Pick an organization"),
			view.PositiveInt("Pick a valid organization"),
		))
		Expect(ref.Validate(map[string]string{"organization_id": "abc"})).To(HaveKeyWithValue("organization_id", "Pick an organization"))
		Expect(ref.Validate(map[string]string{"organization_id": ""})).To(HaveKeyWithValue("organization_id", "Pick a valid organization"))
		Expect(ref.Validate(map[string]string{"organization_id": "-1"})).To(HaveKeyWithValue("organization_id", "Pick a valid organization"))
		Expect(ref.Validate(map[string]string{"organization_id": "3"})).To(BeEmpty())
	})

	It("validates only the fields a partial set carries", func() {
		Expect(schema.ValidatePresent(map[string]string{"name": "Acme"})).To(BeEmpty())
		Expect(schema.ValidatePresent(map[string]string{"email": "nope"})).To(Equal(map[string]string{"email": "Invalid email"}))
	})

	Describe("Bind", func() {
		It("keeps declared keys only", func() {
			in, errs, err := schema.Bind(map[string]any{"name": "Acme", "id": 9, "extra": true}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(errs).To(BeEmpty())
			Expect(in).To(Equal(apiclient.Fields{"name": "Acme"}))
		})

		It("requires every rule on a full body", func() {
			_, errs, err := schema.Bind(map[string]any{"email": "a@b.co"}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(errs).To(HaveKeyWithValue("name", "Name is required"))
			Expect(errs).To(HaveKeyWithValue("organization_id", "Pick an organization"))
		})

		It("reads JSON numbers as references", func() {
			_, errs, err := schema.Bind(map[string]any{"organization_id": float64(4)}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(errs).To(BeEmpty())
		})
	})

	It("checks nothing without a schema", func() {
		var none *view.Schema
		Expect(none.Validate(map[string]string{"name": ""})).To(BeEmpty())
	})
})
