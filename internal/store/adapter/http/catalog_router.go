package http

import (
	"artdash/internal/shared/logger"
	"artdash/internal/store/usecase"

	"github.com/gofiber/fiber/v2"
)

// CatalogHTTPHandler handles HTTP requests for the product catalog.
type CatalogHTTPHandler struct {
	usecase *usecase.CatalogUsecase
	log     logger.Logger
}

// NewCatalogHTTPHandler creates a new catalog HTTP handler
func NewCatalogHTTPHandler(uc *usecase.CatalogUsecase, log logger.Logger) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{usecase: uc, log: log}
}

// SetupCatalogRoutes registers the /api/products endpoints. Writes require an
// authenticated admin; reads are public storefront traffic.
func (h *CatalogHTTPHandler) SetupCatalogRoutes(router fiber.Router, protect, requireAdmin fiber.Handler) {
	products := router.Group("/products")

	products.Get("/top-selling", h.TopSelling)
	products.Get("/", h.ListProducts)
	products.Get("/:id", h.GetProduct)

	products.Post("/", protect, requireAdmin, h.CreateProduct)
	products.Put("/:id", protect, requireAdmin, h.UpdateProduct)
	products.Delete("/:id", protect, requireAdmin, h.DeleteProduct)
}

// CreateProduct stores a new catalog entry, uploading any data-URL images.
func (h *CatalogHTTPHandler) CreateProduct(c *fiber.Ctx) error {
	var in usecase.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	product, err := h.usecase.CreateProduct(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	h.log.WithContext(c.UserContext()).Info("product created ", product.ID)
	return c.Status(fiber.StatusCreated).JSON(product)
}

// ListProducts returns the catalog ordered by popularity.
func (h *CatalogHTTPHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.usecase.ListProducts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// TopSelling returns the most-clicked products.
func (h *CatalogHTTPHandler) TopSelling(c *fiber.Ctx) error {
	products, err := h.usecase.TopSelling(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GetProduct fetches one product and counts the view.
func (h *CatalogHTTPHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.usecase.ViewProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// UpdateProduct applies a partial update, re-uploading changed images.
func (h *CatalogHTTPHandler) UpdateProduct(c *fiber.Ctx) error {
	var in usecase.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	product, err := h.usecase.UpdateProduct(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct removes one catalog entry.
func (h *CatalogHTTPHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.usecase.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Product removed successfully",
	})
}
