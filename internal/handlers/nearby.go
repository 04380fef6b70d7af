package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nearbuy/internal/config"
	"github.com/example/nearbuy/internal/services"
)

// NearbyHandler serves geofiltered deal and vendor discovery.
type NearbyHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewNearbyHandler constructs NearbyHandler.
func NewNearbyHandler(db *gorm.DB, cfg *config.Config) *NearbyHandler {
	return &NearbyHandler{db: db, cfg: cfg}
}

// NearbyDeals returns live deals within the radius of the caller's
// coordinates, closest first.
func (h *NearbyHandler) NearbyDeals(c *fiber.Ctx) error {
	lat, lon, radius, err := h.parseCoords(c)
	if err != nil {
		return err
	}

	deals, err := services.NearbyDeals(h.db, lat, lon, radius, time.Now())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": deals, "radius_km": radius})
}

// NearbyVendors returns vendors within the radius, annotated with live deal
// counts.
func (h *NearbyHandler) NearbyVendors(c *fiber.Ctx) error {
	lat, lon, radius, err := h.parseCoords(c)
	if err != nil {
		return err
	}

	vendors, err := services.NearbyVendors(h.db, lat, lon, radius, time.Now())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": vendors, "radius_km": radius})
}

func (h *NearbyHandler) parseCoords(c *fiber.Ctx) (lat, lon, radius float64, err error) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		return 0, 0, 0, fiber.NewError(fiber.StatusBadRequest, "lat and lon are required")
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, 0, fiber.NewError(fiber.StatusBadRequest, "coordinates out of range")
	}

	radius = h.cfg.DefaultRadiusKm
	if raw := c.Query("radius_km"); raw != "" {
		parsed, perr := strconv.ParseFloat(raw, 64)
		if perr != nil || parsed <= 0 {
			return 0, 0, 0, fiber.NewError(fiber.StatusBadRequest, "invalid radius_km")
		}
		radius = parsed
	}

	return lat, lon, radius, nil
}
