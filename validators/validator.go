// Package validators adapts go-playground/validator for Echo's request
// validation hook.
package validators

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Validator wraps a validator instance for echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the custom tags registered
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
