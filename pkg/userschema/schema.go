// Package userschema holds the user payload contract. The server evaluates it
// authoritatively; clients evaluate the same rules for early feedback.
package userschema

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	DefaultGenders = []string{"male", "female", "other"}

	mobileRe = regexp.MustCompile(`^[0-9]{10}$`)
)

// messages is keyed by "<field>.<tag>".
var messages = map[string]string{
	"firstName.required": "First name is required",
	"lastName.required":  "Last name is required",
	"email.email":        "Invalid email address",
	"mobile.mobile":      "Mobile must be 10 digits",
	"gender.required":    "Please select a gender",
	"gender.gender":      "Invalid gender value",
	"status.required":    "Please select a status",
	"status.oneof":       "Invalid status value",
	"location.required":  "Location is required",
}

type Payload struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"email"`
	Mobile    string  `json:"mobile" validate:"mobile"`
	Gender    string  `json:"gender" validate:"required,gender"`
	Status    string  `json:"status" validate:"required,oneof=active inactive"`
	Location  string  `json:"location" validate:"required"`
	Profile   *string `json:"profile,omitempty"`
}

type Schema struct {
	validate *validator.Validate
	genders  map[string]struct{}
	ordered  []string
}

// New builds a schema accepting the given genders, or DefaultGenders when none are given.
func New(genders ...string) *Schema {
	if len(genders) == 0 {
		genders = DefaultGenders
	}

	s := &Schema{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		genders:  make(map[string]struct{}, len(genders)),
	}
	for _, g := range genders {
		g = strings.ToLower(strings.TrimSpace(g))
		if _, dup := s.genders[g]; g == "" || dup {
			continue
		}
		s.genders[g] = struct{}{}
		s.ordered = append(s.ordered, g)
	}

	s.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = s.validate.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	_ = s.validate.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		_, ok := s.genders[fl.Field().String()]
		return ok
	})

	return s
}

func (s *Schema) Genders() []string {
	return append([]string(nil), s.ordered...)
}

// Validate normalises p (trimmed strings, lower-cased email) and checks it.
// The returned error, when the payload is rejected, is a ValidationErrors.
func (s *Schema) Validate(p Payload) (Payload, error) {
	p = Normalize(p)

	err := s.validate.Struct(p)
	if err == nil {
		return p, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Payload{}, err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		path := fieldPath(fe)
		out = append(out, FieldError{Field: path, Message: message(path, fe)})
	}

	return Payload{}, out
}

func Normalize(p Payload) Payload {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Mobile = strings.TrimSpace(p.Mobile)
	p.Gender = strings.TrimSpace(p.Gender)
	p.Status = strings.TrimSpace(p.Status)
	p.Location = strings.TrimSpace(p.Location)
	if p.Profile != nil {
		profile := strings.TrimSpace(*p.Profile)
		p.Profile = &profile
	}
	return p
}

// fieldPath drops the root struct name: "Payload.address.city" -> "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(path string, fe validator.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	if fe.Tag() == "required" {
		return path + " is required"
	}
	return path + " is invalid"
}
