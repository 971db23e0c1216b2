package validate

import (
	"github.com/go-playground/validator/v10"
)

// EchoValidator adapts go-playground/validator to echo's Validator interface.
type EchoValidator struct {
	validator *validator.Validate
}

// New builds the request validator used by all handlers.
func New() *EchoValidator {
	return &EchoValidator{validator: validator.New()}
}

// Validate runs struct-tag validation on a bound request.
func (ev *EchoValidator) Validate(i interface{}) error {
	return ev.validator.Struct(i)
}
