package userapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// NewErrorHandler returns a fiber error handler that maps the package's
// error taxonomy to JSON responses of the form {"error": "<message>"}.
// Anything unrecognized, and every 5xx, logs the full error and answers with
// a generic message so internals never leak to clients.
func NewErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if fiberErr.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP %d: %s", fiberErr.Code, fiberErr.Error())
				return c.Status(fiberErr.Code).JSON(fiber.Map{
					"error": "Internal Server Error",
				})
			}
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		var appErr *errors.Error
		if errors.As(err, &appErr) {
			status := appErr.Code
			if status < fiber.StatusBadRequest {
				status = statusFromCategory(appErr.Category)
			}

			if status >= fiber.StatusInternalServerError {
				logger.Error("HTTP %d %s: %+v", status, appErr.TextCode, err)
				return c.Status(status).JSON(fiber.Map{
					"error": "Internal Server Error",
				})
			}

			return c.Status(status).JSON(fiber.Map{
				"error": appErr.Message,
			})
		}

		logger.Error("HTTP unhandled error: %+v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
