package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/lalajet/backend/internal/domain/shared"
)

// RegisterValidators installs the custom binding validators used by
// request DTOs: quote_locale for the supported editor languages and
// quote_currency for the supported currencies.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("quote_locale", validateLocale); err != nil {
		return err
	}
	return v.RegisterValidation("quote_currency", validateCurrency)
}

func validateLocale(fl validator.FieldLevel) bool {
	return shared.Locale(fl.Field().String()).Valid()
}

func validateCurrency(fl validator.FieldLevel) bool {
	return shared.Currency(fl.Field().String()).Valid()
}
