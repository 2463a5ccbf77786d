package server

import (
	"errors"

	"holocron/core/store"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps a store error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, store.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrNotInitialized), errors.Is(err, store.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes err as a JSON error body with the status from StatusFor.
func Error(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
