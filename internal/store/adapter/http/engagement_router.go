package http

import (
	"artdash/internal/shared/logger"
	"artdash/internal/store/usecase"

	"github.com/gofiber/fiber/v2"
)

// EngagementHTTPHandler handles HTTP requests for contact messages and
// product reviews.
type EngagementHTTPHandler struct {
	usecase *usecase.EngagementUsecase
	log     logger.Logger
}

// NewEngagementHTTPHandler creates a new engagement HTTP handler
func NewEngagementHTTPHandler(uc *usecase.EngagementUsecase, log logger.Logger) *EngagementHTTPHandler {
	return &EngagementHTTPHandler{usecase: uc, log: log}
}

// SetupEngagementRoutes registers the /api/contact and /api/reviews
// endpoints. Submissions are public; managing the inbox is admin.
func (h *EngagementHTTPHandler) SetupEngagementRoutes(router fiber.Router, protect, requireAdmin fiber.Handler) {
	contact := router.Group("/contact")
	contact.Post("/", h.SubmitMessage)
	contact.Get("/", protect, requireAdmin, h.ListMessages)
	contact.Put("/:id/read", protect, requireAdmin, h.MarkMessageRead)
	contact.Delete("/:id", protect, requireAdmin, h.DeleteMessage)

	reviews := router.Group("/reviews")
	reviews.Get("/", h.ListReviews)
	reviews.Post("/", h.SubmitReview)
}

// SubmitMessage stores a contact-form submission.
func (h *EngagementHTTPHandler) SubmitMessage(c *fiber.Ctx) error {
	var in usecase.ContactInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	msg, err := h.usecase.SubmitMessage(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Your message has been received successfully!",
		"data":    msg,
	})
}

// ListMessages returns the contact inbox, newest first.
func (h *EngagementHTTPHandler) ListMessages(c *fiber.Ctx) error {
	messages, err := h.usecase.ListMessages(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(messages),
		"data":    messages,
	})
}

// MarkMessageRead flags one message as handled.
func (h *EngagementHTTPHandler) MarkMessageRead(c *fiber.Ctx) error {
	msg, err := h.usecase.MarkMessageRead(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message marked as read",
		"data":    msg,
	})
}

// DeleteMessage removes one message from the inbox.
func (h *EngagementHTTPHandler) DeleteMessage(c *fiber.Ctx) error {
	if err := h.usecase.DeleteMessage(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message deleted successfully",
	})
}

// ListReviews returns a product's reviews with their average rating. The
// product is selected by the productId query parameter.
func (h *EngagementHTTPHandler) ListReviews(c *fiber.Ctx) error {
	productID := c.Query("productId")
	if productID == "" {
		return fail(c, fiber.StatusBadRequest, "Missing productId query parameter")
	}

	result, err := h.usecase.ReviewsForProduct(c.Context(), productID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"total":         result.Count,
		"averageRating": result.AverageRating,
		"data":          result.Reviews,
	})
}

// SubmitReview stores a new product review.
func (h *EngagementHTTPHandler) SubmitReview(c *fiber.Ctx) error {
	var in usecase.ReviewInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	review, err := h.usecase.SubmitReview(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Review submitted successfully!",
		"data":    review,
	})
}
