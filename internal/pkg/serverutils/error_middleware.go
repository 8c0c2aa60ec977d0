package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopquery-be/internal/service"
)

// ErrorHandlerMiddleware maps service-level sentinel errors onto HTTP
// statuses. Handlers just return errors; nothing below the controller
// layer knows about status codes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrValidation):
			status = fiber.StatusBadRequest
		case errors.Is(err, service.ErrNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, service.ErrUnauthorized),
			errors.Is(err, service.ErrExpiredOrRevoked):
			status = fiber.StatusUnauthorized
		case errors.Is(err, service.ErrConflict):
			status = fiber.StatusConflict
		case errors.Is(err, service.ErrUpstream):
			status = fiber.StatusBadGateway
		default:
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		return ctx.Status(status).JSON(fiber.Map{
			"message": err.Error(),
		})
	}
}
