package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nearbuy/internal/middleware"
	"github.com/example/nearbuy/internal/models"
	"github.com/example/nearbuy/internal/utils"
)

// ProfileHandler manages user profile endpoints.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the authenticated user with their role-specific
// profile attached.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	query := h.db
	role, _ := middleware.GetCurrentUserRole(c)
	switch role {
	case models.RoleVendor:
		query = query.Preload("VendorProfile")
	case models.RoleBuyer:
		query = query.Preload("BuyerProfile")
	}

	if err := query.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Vendor fields.
	ShopName    *string `json:"shop_name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	ImageURL    *string `json:"image_url"`

	// Shared location fields.
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`

	// Buyer fields.
	SearchRadiusKm *float64 `json:"search_radius_km" validate:"omitempty,gt=0"`
}

// UpdateProfile upserts the role-specific profile for the authenticated
// user.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	switch user.Role {
	case models.RoleVendor:
		if err := h.upsertVendorProfile(user, req); err != nil {
			return err
		}
	case models.RoleBuyer:
		if err := h.upsertBuyerProfile(user, req); err != nil {
			return err
		}
	}

	return h.GetProfile(c)
}

func (h *ProfileHandler) upsertVendorProfile(user models.User, req updateProfileRequest) error {
	var profile models.VendorProfile
	err := h.db.Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	profile.UserID = user.ID

	if req.ShopName != nil {
		profile.ShopName = *req.ShopName
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.ImageURL != nil {
		profile.ImageURL = *req.ImageURL
	}
	if req.Latitude != nil {
		profile.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		profile.Longitude = *req.Longitude
	}

	return h.db.Save(&profile).Error
}

func (h *ProfileHandler) upsertBuyerProfile(user models.User, req updateProfileRequest) error {
	var profile models.BuyerProfile
	err := h.db.Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	profile.UserID = user.ID

	if req.Latitude != nil {
		profile.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		profile.Longitude = *req.Longitude
	}
	if req.SearchRadiusKm != nil {
		profile.SearchRadiusKm = *req.SearchRadiusKm
	}

	return h.db.Save(&profile).Error
}
