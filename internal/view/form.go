package view

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ping-crm/dashboard/pkg/apiclient"
)

// FieldKind selects the input control of a field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindPassword FieldKind = "password"
	KindSelect   FieldKind = "select"
	// KindReference is a select whose value is the integer id of another record.
	KindReference FieldKind = "integer-reference"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field describes one form input.
type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Options     []Option
	Placeholder string
	FullWidth   bool
}

// FormConfig is the static description of a detail/create page.
type FormConfig struct {
	Title       string
	BackHref    string
	BackLabel   string
	Fields      []Field
	Schema      *Schema
	Action      string
	DeleteHref  string
	SubmitLabel string
	UpdateLabel string
	DeleteLabel string
	CanCreate   bool
	CanUpdate   bool
	CanDelete   bool
}

// FormState is the per-request input of a form.
type FormState struct {
	Loading bool
	Error   string
}

// FormMode is the mutually exclusive render state of a form.
type FormMode string

const (
	FormLoading  FormMode = "loading"
	FormError    FormMode = "error"
	FormNotFound FormMode = "not_found"
	FormCreate   FormMode = "create"
	FormEdit     FormMode = "edit"
)

// Form is the template model of a detail view.
type Form struct {
	cfg FormConfig

	Mode        FormMode
	Error       string
	SubmitError string
	Values      map[string]string
	Errors      map[string]string
	Children    []*Table
}

// NewForm selects the mode from record presence: nil with CanCreate is create
// mode, non-nil is edit mode and the values are reset from record.
func NewForm[T any](cfg FormConfig, record *T, state FormState) *Form {
	f := &Form{cfg: cfg, Values: map[string]string{}, Errors: map[string]string{}}
	switch {
	case state.Loading:
		f.Mode = FormLoading
	case state.Error != "":
		f.Mode = FormError
		f.Error = state.Error
	case record == nil && !cfg.CanCreate:
		f.Mode = FormNotFound
	case record == nil:
		f.Mode = FormCreate
	default:
		f.Mode = FormEdit
		f.Reset(record)
	}
	return f
}

// Reset replaces the field values with record's. In-progress edits are dropped.
// A record that cannot be read puts the form in error mode.
func (f *Form) Reset(record any) {
	f.Errors = map[string]string{}
	values, err := Values(record)
	if err != nil {
		f.Mode = FormError
		f.Error = Message(err)
		f.Values = map[string]string{}
		return
	}
	f.Values = values
}

// Bind takes the submitted field set. Only declared fields are read.
func (f *Form) Bind(submitted url.Values) {
	f.Values = map[string]string{}
	for _, field := range f.cfg.Fields {
		v := submitted.Get(field.Name)
		if field.Kind != KindPassword {
			v = strings.TrimSpace(v)
		}
		f.Values[field.Name] = v
	}
}

// Validate runs the schema, if any, and records one message per failing field.
// Without a schema every submission is valid.
func (f *Form) Validate() bool {
	f.Errors = f.cfg.Schema.Validate(f.Values)
	return len(f.Errors) == 0
}

// Fail records a submission error; the form stays visible with the typed values.
func (f *Form) Fail(err error) {
	f.SubmitError = Message(err)
}

// Title returns the page title.
func (f *Form) Title() string { return f.cfg.Title }

// BackHref returns the breadcrumb link.
func (f *Form) BackHref() string { return f.cfg.BackHref }

// BackLabel returns the breadcrumb text.
func (f *Form) BackLabel() string { return f.cfg.BackLabel }

// Action returns the submit target.
func (f *Form) Action() string { return f.cfg.Action }

// DeleteHref returns the delete confirmation page.
func (f *Form) DeleteHref() string { return f.cfg.DeleteHref }

// DeleteLabel returns the delete button text.
func (f *Form) DeleteLabel() string {
	if f.cfg.DeleteLabel == "" {
		return "Delete"
	}
	return f.cfg.DeleteLabel
}

// ShowForm reports whether the inputs are rendered at all.
func (f *Form) ShowForm() bool {
	return f.Mode == FormCreate || f.Mode == FormEdit
}

// ShowSubmit reports whether a handler exists for the current mode.
func (f *Form) ShowSubmit() bool {
	return (f.Mode == FormCreate && f.cfg.CanCreate) || (f.Mode == FormEdit && f.cfg.CanUpdate)
}

// ShowDelete reports whether deletion is offered: edit mode with a delete handler.
func (f *Form) ShowDelete() bool {
	return f.Mode == FormEdit && f.cfg.CanDelete
}

// SubmitText is the idle label of the submit button.
func (f *Form) SubmitText() string {
	if f.Mode == FormCreate {
		if f.cfg.SubmitLabel == "" {
			return "Create"
		}
		return f.cfg.SubmitLabel
	}
	if f.cfg.UpdateLabel == "" {
		return "Update"
	}
	return f.cfg.UpdateLabel
}

// BusyText is shown on the submit button while the request is in flight.
func (f *Form) BusyText() string {
	if f.Mode == FormCreate {
		return "Creating…"
	}
	return "Updating…"
}

// FieldView is a field with its current value and error, ready for a template.
type FieldView struct {
	Name        string
	Label       string
	InputType   string
	IsSelect    bool
	Options     []OptionView
	Placeholder string
	FullWidth   bool
	Value       string
	Error       string
}

// OptionView is a select option with its selection state.
type OptionView struct {
	Value    string
	Label    string
	Selected bool
}

// Fields returns the declared fields in order.
func (f *Form) Fields() []FieldView {
	out := make([]FieldView, 0, len(f.cfg.Fields))
	for _, field := range f.cfg.Fields {
		fv := FieldView{
			Name:        field.Name,
			Label:       field.Label,
			InputType:   string(field.Kind),
			IsSelect:    field.Kind == KindSelect || field.Kind == KindReference,
			Placeholder: field.Placeholder,
			FullWidth:   field.FullWidth,
			Value:       f.Values[field.Name],
			Error:       f.Errors[field.Name],
		}
		if field.Kind == "" {
			fv.InputType = string(KindText)
		}
		if field.Kind == KindPassword {
			fv.Value = ""
		}
		for _, o := range field.Options {
			fv.Options = append(fv.Options, OptionView{Value: o.Value, Label: o.Label, Selected: o.Value == fv.Value})
		}
		out = append(out, fv)
	}
	return out
}

// Payload returns the bound values as request fields. Reference fields become
// integers (left out when not numeric) and empty password fields are left out.
func Payload(f *Form) apiclient.Fields {
	out := make(apiclient.Fields, len(f.cfg.Fields))
	for _, field := range f.cfg.Fields {
		v := f.Values[field.Name]
		switch field.Kind {
		case KindReference:
			if n, err := strconv.Atoi(v); err == nil {
				out[field.Name] = n
			}
		case KindPassword:
			if v != "" {
				out[field.Name] = v
			}
		default:
			out[field.Name] = v
		}
	}
	return out
}

// Decode converts the payload of f into T.
func Decode[T any](f *Form) (T, error) {
	var out T
	raw, err := json.Marshal(Payload(f))
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode form: %w", err)
	}
	return out, nil
}
