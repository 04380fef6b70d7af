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

// TemplateHandler manages vendor deal templates.
type TemplateHandler struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewTemplateHandler constructs TemplateHandler.
func NewTemplateHandler(db *gorm.DB, hub *realtime.Hub) *TemplateHandler {
	return &TemplateHandler{db: db, hub: hub}
}

type templateRequest struct {
	Name            string  `json:"name" validate:"required"`
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description"`
	OriginalPrice   float64 `json:"original_price" validate:"required,gt=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lt=100"`
	Quantity        int     `json:"quantity" validate:"required,gt=0"`
	DurationHours   int     `json:"duration_hours" validate:"required,gt=0"`
	ImageURL        string  `json:"image_url"`
}

// CreateTemplate saves a reusable deal blueprint.
func (h *TemplateHandler) CreateTemplate(c *fiber.Ctx) error {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	template := models.DealTemplate{
		VendorID:        vendorID,
		Name:            req.Name,
		Title:           req.Title,
		Description:     req.Description,
		OriginalPrice:   req.OriginalPrice,
		DiscountPercent: req.DiscountPercent,
		Quantity:        req.Quantity,
		DurationHours:   req.DurationHours,
		ImageURL:        req.ImageURL,
	}

	if err := h.db.Create(&template).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": template})
}

// ListTemplates returns the vendor's saved templates.
func (h *TemplateHandler) ListTemplates(c *fiber.Ctx) error {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var templates []models.DealTemplate
	if err := h.db.Where("vendor_id = ?", vendorID).
		Order("created_at desc").
		Find(&templates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": templates})
}

// UpdateTemplate edits a saved template.
func (h *TemplateHandler) UpdateTemplate(c *fiber.Ctx) error {
	template, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	var req templateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	template.Name = req.Name
	template.Title = req.Title
	template.Description = req.Description
	template.OriginalPrice = req.OriginalPrice
	template.DiscountPercent = req.DiscountPercent
	template.Quantity = req.Quantity
	template.DurationHours = req.DurationHours
	template.ImageURL = req.ImageURL

	if err := h.db.Save(template).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": template})
}

// DeleteTemplate removes a saved template.
func (h *TemplateHandler) DeleteTemplate(c *fiber.Ctx) error {
	template, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	if err := h.db.Delete(template).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// PublishTemplate instantiates a live deal from a saved template.
func (h *TemplateHandler) PublishTemplate(c *fiber.Ctx) error {
	template, err := h.ownedTemplate(c)
	if err != nil {
		return err
	}

	deal := template.NewDeal(time.Now())
	if err := h.db.Create(&deal).Error; err != nil {
		return err
	}

	h.hub.Broadcast("deals", realtime.ActionInsert)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": deal})
}

func (h *TemplateHandler) ownedTemplate(c *fiber.Ctx) (*models.DealTemplate, error) {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var template models.DealTemplate
	if err := h.db.First(&template, "id = ? AND vendor_id = ?", id, vendorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "template not found")
		}
		return nil, err
	}

	return &template, nil
}
