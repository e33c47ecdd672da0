// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"foodtracker/internal/ledger"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("product_unit", validateProductUnit)
		_ = v.RegisterValidation("date_only", validateDateOnly)
	}
}

func validateProductUnit(fl validator.FieldLevel) bool {
	return ledger.Unit(fl.Field().String()).Valid()
}

// validateDateOnly accepts YYYY-MM-DD calendar dates.
func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}
