package middleware

import (
	"fmt"

	"food-ordering-api/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by request bodies.
// order_status accepts any status name, case-insensitively.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		_, err := models.ParseOrderStatus(fl.Field().String())
		return err == nil
	})
}
