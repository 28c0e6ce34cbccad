package organizations

import (
	"regexp"

	"github.com/ping-crm/dashboard/internal/view"
)

var phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s.]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{1,9}$`)

var fields = []view.Field{
	{Name: "name", Label: "Name:", Kind: view.KindText, FullWidth: true},
	{Name: "email", Label: "Email:", Kind: view.KindEmail},
	{Name: "phone", Label: "Phone:", Kind: view.KindTel},
	{Name: "address", Label: "Address:", Kind: view.KindText, FullWidth: true},
	{Name: "city", Label: "City:", Kind: view.KindText},
	{Name: "province", Label: "Province/State:", Kind: view.KindText},
	{Name: "country", Label: "Country:", Kind: view.KindSelect, Options: view.Countries, Placeholder: "Select a country"},
	{Name: "postal_code", Label: "Postal code:", Kind: view.KindText},
}

// Schema is the validation of the organization form.
var Schema = view.NewSchema(
	view.Rules("name",
		view.Required("Name is required"),
		view.MinLen(2, "Name must be at least 2 characters"),
		view.MaxLen(100, "Name must be less than 100 characters"),
	),
	view.Rules("email",
		view.Email("Invalid email address"),
		view.Required("Email is required"),
	),
	view.Rules("phone",
		view.Required("Phone is required"),
		view.Pattern(phonePattern, "Invalid phone number"),
	),
	view.Rules("address",
		view.Required("Address is required"),
		view.MaxLen(200, "Address must be less than 200 characters"),
	),
	view.Rules("city",
		view.Required("City is required"),
		view.MinLen(2, "City must be at least 2 characters"),
		view.MaxLen(100, "City must be less than 100 characters"),
	),
	view.Rules("province",
		view.Required("Province/State is required"),
		view.MaxLen(100, "Province/State must be less than 100 characters"),
	),
	view.Rules("country",
		view.Required("Country is required"),
		view.MaxLen(100, "Country must be less than 100 characters"),
	),
	view.Rules("postal_code",
		view.Required("Postal code is required"),
		view.MaxLen(20, "Postal code must be less than 20 characters"),
	),
)

func createForm() view.FormConfig {
	return view.FormConfig{
		Title:       "Create Organization",
		BackHref:    basePath,
		BackLabel:   "Organizations",
		Fields:      fields,
		Schema:      Schema,
		Action:      basePath,
		SubmitLabel: "Create Organization",
		CanCreate:   true,
	}
}

func editForm(id int, title string) view.FormConfig {
	if title == "" {
		title = "Organization"
	}
	href := view.DetailHref(basePath, id)
	return view.FormConfig{
		Title:       title,
		BackHref:    basePath,
		BackLabel:   "Organizations",
		Fields:      fields,
		Schema:      Schema,
		Action:      href,
		DeleteHref:  href + "/delete",
		UpdateLabel: "Update Organization",
		DeleteLabel: "Delete Organization",
		CanUpdate:   true,
		CanDelete:   true,
	}
}
