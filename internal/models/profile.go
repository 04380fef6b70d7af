package models

import (
	"github.com/google/uuid"
)

// VendorProfile extends a vendor User with shop metadata and coordinates.
type VendorProfile struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	ShopName    string    `json:"shop_name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ImageURL    string    `json:"image_url"`
}

// BuyerProfile extends a buyer User with a home location and search radius.
type BuyerProfile struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	SearchRadiusKm float64   `json:"search_radius_km"`
}
