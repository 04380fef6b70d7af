package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/nearbuy/internal/middleware"
	"github.com/example/nearbuy/internal/services"
)

// AnalyticsHandler serves vendor revenue reports.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// RevenueSummary returns aggregate revenue for the vendor over period_days
// (default 30).
func (h *AnalyticsHandler) RevenueSummary(c *fiber.Ctx) error {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	days := parseDays(c.Query("period_days"), 30)
	summary, err := h.analytics.GetRevenueSummary(c.Context(), vendorID, days)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": summary, "period_days": days})
}

// DailyRevenue returns per-day revenue over days_back (default 7).
func (h *AnalyticsHandler) DailyRevenue(c *fiber.Ctx) error {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	days := parseDays(c.Query("days_back"), 7)
	rows, err := h.analytics.GetDailyRevenue(c.Context(), vendorID, days)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rows, "days_back": days})
}

// RepeatBuyers returns buyers with more than one collected order.
func (h *AnalyticsHandler) RepeatBuyers(c *fiber.Ctx) error {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	rows, err := h.analytics.GetRepeatBuyers(c.Context(), vendorID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": rows})
}

func parseDays(raw string, fallback int) int {
	if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
		return parsed
	}
	return fallback
}
