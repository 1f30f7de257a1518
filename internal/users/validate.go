package users

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/itmspace/user-gateway/internal/apperr"
)

var createValidator = newCreateValidator()

func newCreateValidator() *validator.Validate {
	v := validator.New()
	// report violations under the wire field names, not Go struct names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// createRules mirrors CreateRequest; kept separate so the wire struct stays a
// plain JSON shape and validation stays in one place.
type createRules struct {
	Username  string `json:"username" validate:"notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"min=6"`
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
}

// ValidateCreate checks every rule and returns the full violation list, never
// just the first failure. It has no side effects; the same request always
// yields the same violations.
func ValidateCreate(req CreateRequest) []apperr.FieldViolation {
	err := createValidator.Struct(createRules(req))
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperr.FieldViolation{{Field: "request", Message: "payload could not be validated"}}
	}
	out := make([]apperr.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperr.FieldViolation{Field: fe.Field(), Message: violationMessage(fe)})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "must not be blank"
	case "required":
		return "is required"
	case "email":
		return "must be a well-formed email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	}
	return "is invalid"
}
