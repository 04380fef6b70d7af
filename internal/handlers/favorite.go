package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/nearbuy/internal/middleware"
	"github.com/example/nearbuy/internal/models"
	"github.com/example/nearbuy/internal/utils"
)

// FavoriteHandler manages a buyer's bookmarked vendors.
type FavoriteHandler struct {
	db *gorm.DB
}

// NewFavoriteHandler constructs FavoriteHandler.
func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{db: db}
}

// AddFavorite bookmarks the vendor in :vendorID for the buyer.
func (h *FavoriteHandler) AddFavorite(c *fiber.Ctx) error {
	buyerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	vendorID, err := uuid.Parse(c.Params("vendorID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid vendor id")
	}

	var profile models.VendorProfile
	if err := h.db.First(&profile, "user_id = ?", vendorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "vendor not found")
		}
		return err
	}

	var existing models.CustomerFavorite
	err = h.db.Where("buyer_id = ? AND vendor_id = ?", buyerID, vendorID).First(&existing).Error
	if err == nil {
		return c.JSON(fiber.Map{"success": true, "data": existing})
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	favorite := models.CustomerFavorite{
		BuyerID:  buyerID,
		VendorID: vendorID,
	}
	if err := h.db.Create(&favorite).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": favorite})
}

// RemoveFavorite deletes the bookmark.
func (h *FavoriteHandler) RemoveFavorite(c *fiber.Ctx) error {
	buyerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	vendorID, err := uuid.Parse(c.Params("vendorID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid vendor id")
	}

	res := h.db.Where("buyer_id = ? AND vendor_id = ?", buyerID, vendorID).
		Delete(&models.CustomerFavorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "favorite not found")
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListFavorites returns the buyer's bookmarked vendors.
func (h *FavoriteHandler) ListFavorites(c *fiber.Ctx) error {
	buyerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&models.CustomerFavorite{}).
		Where("buyer_id = ?", buyerID).Count(&total).Error; err != nil {
		return err
	}

	var favorites []models.CustomerFavorite
	if err := h.db.Preload("Vendor").
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&favorites).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    favorites,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
