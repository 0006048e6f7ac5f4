package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// RegisterValidations installs custom binding validators on gin's
// validator engine. Must be called once before routes are served.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("currency", validateCurrency)
}

func validateCurrency(fl validator.FieldLevel) bool {
	return valueobject.Currency(fl.Field().String()).IsValid()
}
