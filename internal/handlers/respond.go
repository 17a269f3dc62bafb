package handlers

import (
	"errors"
	"fmt"

	"kedai/internal/repositories"
	"kedai/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// statusFromError maps a service error onto the HTTP status taxonomy:
// denied predicates become 403, missed lookups 404, broken business rules
// 400 and everything else 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// validationMessages flattens validator.ValidationErrors into a per-field
// message map for 400 payloads.
func validationMessages(err error) map[string]string {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return errorMessages
}
