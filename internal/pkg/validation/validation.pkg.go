package validation

import (
	"fmt"
	"reflect"
	"strings"
	"xtopay-checkout/internal/common/enum"
	"xtopay-checkout/internal/pkg/helper"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"
)

// Setup registers the custom binding validators on Gin's engine so struct
// tags like `binding:"required,enum"` work on request DTOs.
func Setup() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("failed to get validation engine")
	}

	if err := registerValidations(v); err != nil {
		return fmt.Errorf("failed to register custom validations: %w", err)
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return nil
}

func registerValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("enum", enum.ValidateEnum); err != nil {
		return fmt.Errorf("failed to register enum validation: %w", err)
	}
	if err := v.RegisterValidation("otp_code", validateOTPCode); err != nil {
		return fmt.Errorf("failed to register otp_code validation: %w", err)
	}
	return nil
}

func validateOTPCode(fl validator.FieldLevel) bool {
	return helper.IsOTPCode(fl.Field().String())
}
