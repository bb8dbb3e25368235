package http

import (
	"artdash/internal/shared/logger"
	"artdash/internal/store/usecase"

	"github.com/gofiber/fiber/v2"
)

// DashboardHTTPHandler serves the admin analytics widgets.
type DashboardHTTPHandler struct {
	usecase *usecase.DashboardUsecase
	log     logger.Logger
}

// NewDashboardHTTPHandler creates a new dashboard HTTP handler
func NewDashboardHTTPHandler(uc *usecase.DashboardUsecase, log logger.Logger) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{usecase: uc, log: log}
}

// SetupDashboardRoutes registers the /api/v1 analytics endpoints. Recording
// a visit is public storefront traffic; everything else is admin.
func (h *DashboardHTTPHandler) SetupDashboardRoutes(router fiber.Router, protect, requireAdmin fiber.Handler) {
	v1 := router.Group("/v1")

	v1.Post("/traffic-source", h.RecordVisit)

	v1.Get("/stats", protect, requireAdmin, h.Stats)
	v1.Get("/earnings-report", protect, requireAdmin, h.EarningsReport)
	v1.Get("/device-visits", protect, requireAdmin, h.DeviceVisits)
	v1.Get("/traffic-source", protect, requireAdmin, h.TrafficSources)
	v1.Get("/sales-countries", protect, requireAdmin, h.SalesCountries)
	v1.Get("/campaign-source", protect, requireAdmin, h.CampaignSources)
	v1.Get("/top-pages", protect, requireAdmin, h.TopPages)
	v1.Get("/top-leads", protect, requireAdmin, h.TopLeads)
	v1.Get("/top-session", protect, requireAdmin, h.TopSessions)
}

// RecordVisit stores one traffic ping from the storefront.
func (h *DashboardHTTPHandler) RecordVisit(c *fiber.Ctx) error {
	var in usecase.VisitInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.usecase.RecordVisit(c.Context(), in); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Traffic recorded successfully",
	})
}

// Stats serves the stat-card numbers.
func (h *DashboardHTTPHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.usecase.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// EarningsReport serves the monthly earnings chart.
func (h *DashboardHTTPHandler) EarningsReport(c *fiber.Ctx) error {
	report, err := h.usecase.EarningsReport(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// DeviceVisits serves the device share widget.
func (h *DashboardHTTPHandler) DeviceVisits(c *fiber.Ctx) error {
	visits, err := h.usecase.DeviceVisits(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(visits)
}

// TrafficSources serves the traffic source list.
func (h *DashboardHTTPHandler) TrafficSources(c *fiber.Ctx) error {
	sources, err := h.usecase.TrafficSources(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sources)
}

// SalesCountries serves delivered sales per destination country.
func (h *DashboardHTTPHandler) SalesCountries(c *fiber.Ctx) error {
	countries, err := h.usecase.SalesCountries(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(countries)
}

// CampaignSources serves the campaign table.
func (h *DashboardHTTPHandler) CampaignSources(c *fiber.Ctx) error {
	campaigns, err := h.usecase.CampaignSources(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(campaigns)
}

// TopPages serves the most visited pages.
func (h *DashboardHTTPHandler) TopPages(c *fiber.Ctx) error {
	pages, err := h.usecase.TopPages(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pages)
}

// TopLeads serves contact submissions bucketed per month.
func (h *DashboardHTTPHandler) TopLeads(c *fiber.Ctx) error {
	leads, err := h.usecase.TopLeads(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(leads)
}

// TopSessions serves the browser share pie chart.
func (h *DashboardHTTPHandler) TopSessions(c *fiber.Ctx) error {
	sessions, err := h.usecase.TopSessions(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessions)
}
