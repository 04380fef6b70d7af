package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/nearbuy/internal/middleware"
	"github.com/example/nearbuy/internal/models"
	"github.com/example/nearbuy/internal/realtime"
	"github.com/example/nearbuy/internal/utils"
)

// DealHandler manages vendor deal endpoints.
type DealHandler struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewDealHandler constructs DealHandler.
func NewDealHandler(db *gorm.DB, hub *realtime.Hub) *DealHandler {
	return &DealHandler{db: db, hub: hub}
}

type createDealRequest struct {
	Title           string    `json:"title" validate:"required"`
	Description     string    `json:"description"`
	OriginalPrice   float64   `json:"original_price" validate:"required,gt=0"`
	DiscountPercent float64   `json:"discount_percent" validate:"gte=0,lt=100"`
	Quantity        int       `json:"quantity" validate:"required,gt=0"`
	ExpiresAt       time.Time `json:"expires_at" validate:"required"`
	ImageURL        string    `json:"image_url"`
}

// CreateDeal publishes a new active deal for the authenticated vendor.
func (h *DealHandler) CreateDeal(c *fiber.Ctx) error {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createDealRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if !req.ExpiresAt.After(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "expiry must be in the future")
	}

	deal := models.Deal{
		VendorID:          vendorID,
		Title:             req.Title,
		Description:       req.Description,
		OriginalPrice:     req.OriginalPrice,
		DiscountPercent:   req.DiscountPercent,
		Quantity:          req.Quantity,
		RemainingQuantity: req.Quantity,
		ExpiresAt:         req.ExpiresAt,
		Status:            models.DealStatusActive,
		ImageURL:          req.ImageURL,
	}

	if err := h.db.Create(&deal).Error; err != nil {
		return err
	}

	h.hub.Broadcast("deals", realtime.ActionInsert)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": deal})
}

type updateDealRequest struct {
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	OriginalPrice   *float64   `json:"original_price"`
	DiscountPercent *float64   `json:"discount_percent"`
	ExpiresAt       *time.Time `json:"expires_at"`
	ImageURL        *string    `json:"image_url"`
}

// UpdateDeal edits an active deal's listing fields.
func (h *DealHandler) UpdateDeal(c *fiber.Ctx) error {
	deal, err := h.ownedDeal(c)
	if err != nil {
		return err
	}

	var req updateDealRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if deal.Status != models.DealStatusActive {
		return fiber.NewError(fiber.StatusConflict, "deal is not active")
	}

	if req.Title != "" {
		deal.Title = req.Title
	}
	if req.Description != nil {
		deal.Description = *req.Description
	}
	if req.OriginalPrice != nil {
		if *req.OriginalPrice <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price must be positive")
		}
		deal.OriginalPrice = *req.OriginalPrice
	}
	if req.DiscountPercent != nil {
		if *req.DiscountPercent < 0 || *req.DiscountPercent >= 100 {
			return fiber.NewError(fiber.StatusBadRequest, "discount must be in [0, 100)")
		}
		deal.DiscountPercent = *req.DiscountPercent
	}
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(time.Now()) {
			return fiber.NewError(fiber.StatusBadRequest, "expiry must be in the future")
		}
		deal.ExpiresAt = *req.ExpiresAt
	}
	if req.ImageURL != nil {
		deal.ImageURL = *req.ImageURL
	}

	if err := h.db.Save(deal).Error; err != nil {
		return err
	}

	h.hub.Broadcast("deals", realtime.ActionUpdate)

	return c.JSON(fiber.Map{"success": true, "data": deal})
}

// GetDeal returns a single deal with its vendor profile.
func (h *DealHandler) GetDeal(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var deal models.Deal
	if err := h.db.Preload("Vendor").First(&deal, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "deal not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": deal})
}

// ListVendorDeals returns the authenticated vendor's deals. Active deals
// past expiry are flipped to expired on this read, mirroring how stale
// listings surface to vendors.
func (h *DealHandler) ListVendorDeals(c *fiber.Ctx) error {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Deal{}).Where("vendor_id = ?", vendorID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var deals []models.Deal
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&deals).Error; err != nil {
		return err
	}

	now := time.Now()
	flipped := false
	for i := range deals {
		if deals[i].ExpireIfDue(now) {
			if err := h.db.Model(&deals[i]).Update("status", models.DealStatusExpired).Error; err != nil {
				return err
			}
			flipped = true
		}
	}
	if flipped {
		h.hub.Broadcast("deals", realtime.ActionUpdate)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    deals,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type quantityRequest struct {
	RemainingQuantity *int `json:"remaining_quantity" validate:"required"`
}

// UpdateQuantity sets a deal's remaining stock. Hitting zero marks the deal
// sold in the same update.
func (h *DealHandler) UpdateQuantity(c *fiber.Ctx) error {
	deal, err := h.ownedDeal(c)
	if err != nil {
		return err
	}

	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := deal.ApplyRemainingQuantity(*req.RemainingQuantity); err != nil {
		switch err {
		case models.ErrQuantityOutOfRange:
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case models.ErrDealNotActive:
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	if err := h.db.Model(deal).Updates(map[string]interface{}{
		"remaining_quantity": deal.RemainingQuantity,
		"status":             deal.Status,
	}).Error; err != nil {
		return err
	}

	h.hub.Broadcast("deals", realtime.ActionUpdate)

	return c.JSON(fiber.Map{"success": true, "data": deal})
}

// MarkSold closes out an active deal.
func (h *DealHandler) MarkSold(c *fiber.Ctx) error {
	deal, err := h.ownedDeal(c)
	if err != nil {
		return err
	}

	if err := deal.MarkSold(); err != nil {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	if err := h.db.Model(deal).Update("status", deal.Status).Error; err != nil {
		return err
	}

	h.hub.Broadcast("deals", realtime.ActionUpdate)

	return c.JSON(fiber.Map{"success": true, "data": deal})
}

// ownedDeal loads the deal in :id and checks vendor ownership.
func (h *DealHandler) ownedDeal(c *fiber.Ctx) (*models.Deal, error) {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var deal models.Deal
	if err := h.db.First(&deal, "id = ? AND vendor_id = ?", id, vendorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "deal not found")
		}
		return nil, err
	}

	return &deal, nil
}
