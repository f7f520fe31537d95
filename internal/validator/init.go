package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// GetValidator returns the shared validator used for websocket messages
// and configuration.
func GetValidator() *validator.Validate {
	return validate
}
