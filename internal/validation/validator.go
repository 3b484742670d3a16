// Package validation wraps go-playground/validator for request payloads.
// A single validator instance is shared by the process; it caches struct
// metadata and carries the catalog's custom tags:
//
//	notblank   string is not empty after trimming whitespace
//	notfuture  date (time.Time or "2006-01-02" string) is not after today (UTC)
//
// Field names in errors are taken from the json tag so they match what the
// client sent.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// now is replaced in tests.
	now = time.Now
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error collects every field that failed validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Get returns the shared validator, building it on first use.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("notblank", notBlank)
		_ = v.RegisterValidation("notfuture", notFuture)
		validate = v
	})
	return validate
}

// Struct validates s and returns nil or an *Error.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Fields: []FieldError{{Field: "body", Tag: "invalid", Message: err.Error()}}}
	}
	out := &Error{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		out.Fields[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: message(fe)}
	}
	return out
}

// Echo adapts the validator to echo.Validator so handlers can call
// c.Validate(&req).
type Echo struct{}

func (Echo) Validate(i any) error { return Struct(i) }

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(f.String()) != ""
}

// notFuture accepts empty values; combine with required where needed.
func notFuture(fl validator.FieldLevel) bool {
	var d time.Time
	switch v := fl.Field().Interface().(type) {
	case string:
		if v == "" {
			return true
		}
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			return false
		}
		d = t
	case time.Time:
		if v.IsZero() {
			return true
		}
		d = v
	default:
		return false
	}
	y, m, day := now().UTC().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return !d.UTC().After(today)
}

var messages = map[string]string{
	"required":  "%s is required",
	"notblank":  "%s must not be blank",
	"notfuture": "%s must not be in the future",
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
