// Package forms binds urlencoded form posts into structs and turns validation
// failures into per-field messages for templates.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has any message.
func (e Errors) Has(field string) bool { return len(e[field]) > 0 }

// First returns the first message of field or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Any reports whether there is at least one error.
func (e Errors) Any() bool { return len(e) > 0 }

var registerOnce sync.Once

func setupValidator() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// Bind maps the POST body into dst, trims every string field and validates it.
// A nil result means dst is valid.
func Bind(c *gin.Context, dst interface{}) Errors {
	setupValidator()
	errs := Errors{}

	if err := c.Request.ParseForm(); err != nil {
		errs.Add("_form", "Malformed form data.")
		return errs
	}
	if err := binding.MapFormWithTag(dst, c.Request.PostForm, "form"); err != nil {
		errs.Add("_form", err.Error())
		return errs
	}
	trimStrings(dst)

	if err := binding.Validator.ValidateStruct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs.Add("_form", err.Error())
			return errs
		}
		for _, fe := range verrs {
			errs.Add(fe.Field(), message(fe))
		}
	}
	if errs.Any() {
		return errs
	}
	return nil
}

func trimStrings(dst interface{}) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "email":
		return "Invalid email address."
	case "url":
		return "Invalid URL."
	case "eqfield":
		return fmt.Sprintf("Field must be equal to %s.", fe.Param())
	case "gt", "gte":
		return "Please select a valid option."
	default:
		return "Invalid value."
	}
}
