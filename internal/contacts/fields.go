package contacts

import (
	"regexp"
	"strconv"

	"github.com/ping-crm/dashboard/internal/models"
	"github.com/ping-crm/dashboard/internal/view"
)

var phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{1,4}[)]?[-\s.]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{1,9}$`)

// Schema is the validation of the contact form.
var Schema = view.NewSchema(
	view.Rules("first_name",
		view.Required("First name is required"),
		view.MinLen(2, "First name must be at least 2 characters"),
		view.MaxLen(50, "First name must be less than 50 characters"),
	),
	view.Rules("last_name",
		view.Required("Last name is required"),
		view.MinLen(2, "Last name must be at least 2 characters"),
		view.MaxLen(50, "Last name must be less than 50 characters"),
	),
	view.Rules("organization_id",
		view.Number("Please select an organization"),
		view.PositiveInt("Please select a valid organization"),
	),
	view.Rules("email",
		view.Email("Invalid email address"),
		view.Required("Email is required"),
	),
	view.Rules("phone",
		view.Pattern(phonePattern, "Invalid phone number"),
		view.Required("Phone is required"),
	),
	view.Rules("address",
		view.Required("Address is required"),
		view.MaxLen(200, "Address must be less than 200 characters"),
	),
	view.Rules("city",
		view.Required("City is required"),
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

func fields(orgs []models.Organization) []view.Field {
	options := make([]view.Option, 0, len(orgs))
	for _, o := range orgs {
		options = append(options, view.Option{Value: strconv.Itoa(o.ID), Label: o.Name})
	}
	return []view.Field{
		{Name: "first_name", Label: "First Name:", Kind: view.KindText},
		{Name: "last_name", Label: "Last Name:", Kind: view.KindText},
		{Name: "email", Label: "Email:", Kind: view.KindEmail},
		{Name: "phone", Label: "Phone:", Kind: view.KindTel},
		{Name: "organization_id", Label: "Organization:", Kind: view.KindReference, Options: options, Placeholder: "Select an organization", FullWidth: true},
		{Name: "address", Label: "Address:", Kind: view.KindText, FullWidth: true},
		{Name: "city", Label: "City:", Kind: view.KindText},
		{Name: "province", Label: "Province/State:", Kind: view.KindText},
		{Name: "country", Label: "Country:", Kind: view.KindSelect, Options: view.Countries, Placeholder: "Select a country"},
		{Name: "postal_code", Label: "Postal code:", Kind: view.KindText},
	}
}

func createForm(orgs []models.Organization) view.FormConfig {
	return view.FormConfig{
		Title:       "Create Contact",
		BackHref:    basePath,
		BackLabel:   "Contacts",
		Fields:      fields(orgs),
		Schema:      Schema,
		Action:      basePath,
		SubmitLabel: "Create Contact",
		CanCreate:   true,
	}
}

func editForm(id int, title string, orgs []models.Organization) view.FormConfig {
	if title == "" {
		title = "Contact"
	}
	href := view.DetailHref(basePath, id)
	return view.FormConfig{
		Title:       title,
		BackHref:    basePath,
		BackLabel:   "Contacts",
		Fields:      fields(orgs),
		Schema:      Schema,
		Action:      href,
		DeleteHref:  href + "/delete",
		UpdateLabel: "Update Contact",
		DeleteLabel: "Delete Contact",
		CanUpdate:   true,
		CanDelete:   true,
	}
}

// table builds the list columns; the organization column shows the name of
// the referenced organization, or its id when the name is unknown.
func table(orgs []models.Organization) view.TableConfig[models.Contact] {
	names := make(map[int]string, len(orgs))
	for _, o := range orgs {
		names[o.ID] = o.Name
	}
	return view.TableConfig[models.Contact]{
		Title: "Contacts",
		Columns: []view.Column[models.Contact]{
			{Key: "name", Label: "Name", Render: models.Contact.FullName},
			{Key: "organization_id", Label: "Organization", Render: func(c models.Contact) string {
				if name, ok := names[c.OrganizationID]; ok {
					return name
				}
				if c.OrganizationID == 0 {
					return ""
				}
				return strconv.Itoa(c.OrganizationID)
			}},
			{Key: "city", Label: "City"},
			{Key: "phone", Label: "Phone"},
		},
		SearchKeys:        []string{"first_name", "last_name", "city", "phone"},
		SearchPlaceholder: "Search...",
		CreateLabel:       "Create Contact",
		CreateHref:        basePath + "/create",
		BasePath:          basePath,
		RowHref:           func(c models.Contact) string { return view.DetailHref(basePath, c.ID) },
	}
}
