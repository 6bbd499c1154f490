package handlers

import (
	"errors"
	"log/slog"

	"mercearia/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// WriteError translates err into the JSON error envelope and status code.
// Store failures and unexpected errors are logged and answered with a generic
// 500 body.
func WriteError(c *fiber.Ctx, err error) error {
	var (
		invalid  *apperrors.InvalidArgumentError
		notFound *apperrors.NotFoundError
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  invalid.Violations,
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": notFound.Error(),
		})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
		})
	}

	attrs := []any{
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	}
	if apperrors.IsStoreError(err) {
		slog.ErrorContext(c.UserContext(), "store failure", attrs...)
	} else {
		slog.ErrorContext(c.UserContext(), "unexpected error", attrs...)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

// ErrorHandler is the fiber.Config ErrorHandler; it uses the same envelope
// for errors escaping the handlers, such as unknown routes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return WriteError(c, err)
}
