package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"shopquery-be/internal/service"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO and folds
// failures into the shared validation error so the error middleware maps
// them to 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", service.ErrValidation, err)
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
	}
	return fmt.Errorf("%w: %s", service.ErrValidation, strings.Join(fields, ", "))
}
