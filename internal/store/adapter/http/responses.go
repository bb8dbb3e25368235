package http

import (
	"errors"

	"artdash/internal/store/usecase"

	"github.com/gofiber/fiber/v2"
)

// fail writes the uniform error envelope.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// respondError maps store usecase errors onto HTTP statuses. Anything not
// recognized is a 500 with a generic message.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrProductNotFound),
		errors.Is(err, usecase.ErrOrderNotFound),
		errors.Is(err, usecase.ErrMessageNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, usecase.ErrMainImageUpload),
		errors.Is(err, usecase.ErrGalleryImageUpload):
		return fail(c, fiber.StatusBadGateway, err.Error())

	case errors.Is(err, usecase.ErrMissingTitle),
		errors.Is(err, usecase.ErrMissingArtist),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrMainImageRequired),
		errors.Is(err, usecase.ErrMissingCustomer),
		errors.Is(err, usecase.ErrEmptyOrder),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrOrderAlreadyFinal),
		errors.Is(err, usecase.ErrCancellationNotAllowed),
		errors.Is(err, usecase.ErrInvalidDeliveryWeeks),
		errors.Is(err, usecase.ErrIncompleteMessage),
		errors.Is(err, usecase.ErrIncompleteReview),
		errors.Is(err, usecase.ErrInvalidRating),
		errors.Is(err, usecase.ErrReviewProductMissing),
		errors.Is(err, usecase.ErrVisitFieldsMissing),
		errors.Is(err, usecase.ErrInvalidDevice):
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	return fail(c, fiber.StatusInternalServerError, "Something went wrong")
}
