package http

import (
	"fmt"
	"strings"
	"time"

	"artdash/internal/shared/logger"
	"artdash/internal/store/domain/model"
	"artdash/internal/store/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// OrderHTTPHandler handles HTTP requests for orders.
type OrderHTTPHandler struct {
	usecase *usecase.OrderUsecase
	log     logger.Logger
}

// NewOrderHTTPHandler creates a new order HTTP handler
func NewOrderHTTPHandler(uc *usecase.OrderUsecase, log logger.Logger) *OrderHTTPHandler {
	return &OrderHTTPHandler{usecase: uc, log: log}
}

// SetupOrderRoutes registers the /api/orders endpoints. Checkout and the
// cancellation request come from the storefront; the rest is admin.
func (h *OrderHTTPHandler) SetupOrderRoutes(router fiber.Router, protect, requireAdmin fiber.Handler) {
	orders := router.Group("/orders")

	orders.Post("/", h.CreateOrder)
	orders.Put("/:id/request-cancellation", h.RequestCancellation)

	orders.Get("/export", protect, requireAdmin, h.ExportOrders)
	orders.Get("/", protect, requireAdmin, h.ListOrders)
	orders.Get("/:id", h.GetOrder)
	orders.Put("/:id/status", protect, requireAdmin, h.UpdateStatus)
	orders.Put("/:id/deliverytime", protect, requireAdmin, h.UpdateDeliveryTime)
	orders.Delete("/:id", protect, requireAdmin, h.DeleteOrder)
}

// CreateOrder places a new order from checkout.
func (h *OrderHTTPHandler) CreateOrder(c *fiber.Ctx) error {
	var in usecase.OrderInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	order, err := h.usecase.CreateOrder(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order placed successfully!",
		"data":    order,
	})
}

// ListOrders returns all orders, newest first.
func (h *OrderHTTPHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.usecase.ListOrders(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// GetOrder returns one order with its status history.
func (h *OrderHTTPHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.usecase.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// UpdateStatus advances the order through its status machine.
func (h *OrderHTTPHandler) UpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	order, err := h.usecase.UpdateStatus(c.Context(), c.Params("id"), req.Status, req.Note)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated to " + order.Status,
		"data":    order,
	})
}

// UpdateDeliveryTime sets the estimated delivery window in weeks.
func (h *OrderHTTPHandler) UpdateDeliveryTime(c *fiber.Ctx) error {
	var req struct {
		DeliveryWeeks int `json:"deliveryWeeks"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	order, err := h.usecase.UpdateDeliveryTime(c.Context(), c.Params("id"), req.DeliveryWeeks)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Order delivery time updated to %d weeks", order.DeliveryWeeks),
		"data":    order,
	})
}

// RequestCancellation flags the order for admin review. Refused once the
// order has shipped or reached a terminal status.
func (h *OrderHTTPHandler) RequestCancellation(c *fiber.Ctx) error {
	order, err := h.usecase.RequestCancellation(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cancellation request submitted successfully. Awaiting admin review.",
		"data":    order,
	})
}

// DeleteOrder permanently removes an order.
func (h *OrderHTTPHandler) DeleteOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.usecase.DeleteOrder(c.Context(), id); err != nil {
		return respondError(c, err)
	}

	h.log.WithContext(c.UserContext()).Info("order deleted ", id)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order " + id + " permanently deleted.",
	})
}

var exportHeaders = []string{
	"Order ID", "Date", "Customer", "Email", "Phone",
	"Country", "Items", "Payment", "Total", "Status",
}

// ExportOrders streams all orders as an XLSX workbook.
func (h *OrderHTTPHandler) ExportOrders(c *fiber.Ctx) error {
	orders, err := h.usecase.ListOrders(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not build export")
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for idx, o := range orders {
		row := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), o.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), o.CreatedAt.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), o.CustomerName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), o.CustomerEmail)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), o.CustomerPhone)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), o.ShippingAddress.Country)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), itemSummary(o.Items))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), o.PaymentMethod)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), o.TotalAmount)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), o.Status)
	}

	f.SetColWidth(sheet, "A", "A", 26)
	f.SetColWidth(sheet, "B", "B", 12)
	f.SetColWidth(sheet, "C", "D", 24)
	f.SetColWidth(sheet, "E", "F", 16)
	f.SetColWidth(sheet, "G", "G", 40)
	f.SetColWidth(sheet, "H", "J", 12)

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "orders_"+time.Now().Format("20060102")+".xlsx"))

	if err := f.Write(c.Response().BodyWriter()); err != nil {
		h.log.Error("order export failed ", err)
		return fail(c, fiber.StatusInternalServerError, "Could not build export")
	}
	return nil
}

func itemSummary(items []model.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.ProductName, it.Quantity))
	}
	return strings.Join(parts, ", ")
}
