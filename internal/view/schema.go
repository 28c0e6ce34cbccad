package view

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ping-crm/dashboard/pkg/apiclient"
)

var validate = validator.New()

// Rule checks one field value.
type Rule interface {
	Check(value string) bool
	Message() string
}

type tagRule struct {
	tag string
	msg string
}

func (r tagRule) Check(value string) bool { return validate.Var(value, r.tag) == nil }
func (r tagRule) Message() string         { return r.msg }

type patternRule struct {
	re  *regexp.Regexp
	msg string
}

func (r patternRule) Check(value string) bool { return r.re.MatchString(value) }
func (r patternRule) Message() string         { return r.msg }

type positiveIntRule struct {
	msg string
}

func (r positiveIntRule) Check(value string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	return err == nil && validate.Var(n, "gt=0") == nil
}
func (r positiveIntRule) Message() string { return r.msg }

type numberRule struct {
	msg string
}

func (r numberRule) Check(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}
func (r numberRule) Message() string { return r.msg }

// Required rejects empty values.
func Required(msg string) Rule { return tagRule{tag: "required", msg: msg} }

// MinLen rejects values shorter than n characters.
func MinLen(n int, msg string) Rule { return tagRule{tag: "min=" + strconv.Itoa(n), msg: msg} }

// MaxLen rejects values longer than n characters.
func MaxLen(n int, msg string) Rule { return tagRule{tag: "max=" + strconv.Itoa(n), msg: msg} }

// Email rejects malformed addresses.
func Email(msg string) Rule { return tagRule{tag: "email", msg: msg} }

// Pattern rejects values not matching re.
func Pattern(re *regexp.Regexp, msg string) Rule { return patternRule{re: re, msg: msg} }

// Number rejects values that are not numeric. An empty value counts as zero
// and is left to the rules that follow.
func Number(msg string) Rule { return numberRule{msg: msg} }

// PositiveInt rejects values that are not an integer greater than zero.
func PositiveInt(msg string) Rule { return positiveIntRule{msg: msg} }

// FieldRules is the rule chain of one field; the first failing rule wins.
type FieldRules struct {
	Field string
	Rules []Rule
}

// Schema validates a submitted field set.
type Schema struct {
	fields []FieldRules
}

// NewSchema builds a schema.
func NewSchema(fields ...FieldRules) *Schema {
	return &Schema{fields: fields}
}

// Rules declares the rule chain of one field.
func Rules(name string, rules ...Rule) FieldRules {
	return FieldRules{Field: name, Rules: rules}
}

// Names returns the fields the schema declares, in order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		names = append(names, f.Field)
	}
	return names
}

// ValidatePresent is Validate restricted to the fields values carries.
func (s *Schema) ValidatePresent(values map[string]string) map[string]string {
	errs := map[string]string{}
	if s == nil {
		return errs
	}
	for _, f := range s.fields {
		v, ok := values[f.Field]
		if !ok {
			continue
		}
		if msg, failed := f.check(v); failed {
			errs[f.Field] = msg
		}
	}
	return errs
}

// Bind keeps the declared keys of a decoded JSON body and validates them.
// A partial body is checked only for the keys it carries; a full one must
// satisfy every rule.
func (s *Schema) Bind(body map[string]any, partial bool) (apiclient.Fields, map[string]string, error) {
	in := apiclient.Fields{}
	for _, name := range s.Names() {
		if v, ok := body[name]; ok {
			in[name] = v
		}
	}
	values, err := Values(map[string]any(in))
	if err != nil {
		return nil, nil, err
	}
	if partial {
		return in, s.ValidatePresent(values), nil
	}
	return in, s.Validate(values), nil
}

func (f FieldRules) check(value string) (string, bool) {
	for _, r := range f.Rules {
		if !r.Check(value) {
			return r.Message(), true
		}
	}
	return "", false
}

// Validate returns field name → message for every failing field.
func (s *Schema) Validate(values map[string]string) map[string]string {
	errs := map[string]string{}
	if s == nil {
		return errs
	}
	for _, f := range s.fields {
		if msg, failed := f.check(values[f.Field]); failed {
			errs[f.Field] = msg
		}
	}
	return errs
}
