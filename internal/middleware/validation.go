package middleware

import (
	"event-registration-backend/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateBody parses the request body into dest and validates it. Failures
// come back as validation errors for the central error handler to render;
// callers must not proceed with dest when an error is returned.
func ValidateBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return apperrors.New(apperrors.CodeValidation, "Invalid request body")
	}

	if err := validate.Struct(dest); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		firstError := validationErrors[0]

		var errorMessage string
		switch firstError.Tag() {
		case "required":
			errorMessage = firstError.Field() + " is required"
		case "email":
			errorMessage = "Invalid email format"
		case "min":
			errorMessage = firstError.Field() + " is too short"
		case "max":
			errorMessage = firstError.Field() + " is too long"
		case "gte":
			errorMessage = firstError.Field() + " is too small"
		case "lte":
			errorMessage = firstError.Field() + " is too large"
		case "oneof":
			errorMessage = firstError.Field() + " must be one of: " + firstError.Param()
		default:
			errorMessage = "Validation failed for " + firstError.Field()
		}

		return apperrors.New(apperrors.CodeValidation, errorMessage)
	}

	return nil
}
