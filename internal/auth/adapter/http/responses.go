package http

import (
	"errors"

	"artdash/internal/auth/domain/model"
	"artdash/internal/auth/usecase"
	apperrors "artdash/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to HTTP statuses. Every body carries the
// {success, error} shape the frontend expects.
func respondError(c *fiber.Ctx, err error) error {
	var dup *model.DuplicateKeyError
	if errors.As(err, &dup) {
		return fail(c, fiber.StatusConflict, dup.Error())
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return fail(c, appErr.HTTPCode, appErr.Message)
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, usecase.ErrTokenInvalid), errors.Is(err, usecase.ErrSessionRevoked):
		return fail(c, fiber.StatusUnauthorized, "Session is invalid or has been revoked")
	case errors.Is(err, usecase.ErrRevokeCurrentSession):
		return fail(c, fiber.StatusForbidden, "Cannot revoke the current session; use logout instead")
	case errors.Is(err, usecase.ErrAdminUndeletable):
		return fail(c, fiber.StatusForbidden, "Admin users cannot be deleted")
	case errors.Is(err, usecase.ErrSessionNotFound):
		return fail(c, fiber.StatusNotFound, "Session not found")
	case errors.Is(err, usecase.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, usecase.ErrWeakPassword),
		errors.Is(err, usecase.ErrInvalidEmailFormat),
		errors.Is(err, usecase.ErrInvalidUsername),
		errors.Is(err, usecase.ErrNoUpdatableFields):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
