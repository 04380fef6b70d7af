package models

import (
	"github.com/google/uuid"
)

// CustomerFavorite bookmarks a vendor for a buyer.
type CustomerFavorite struct {
	BaseModel
	BuyerID  uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:idx_favorites_buyer_vendor" json:"buyer_id"`
	VendorID uuid.UUID      `gorm:"type:uuid;index;uniqueIndex:idx_favorites_buyer_vendor" json:"vendor_id"`
	Vendor   *VendorProfile `gorm:"foreignKey:VendorID;references:UserID" json:"vendor,omitempty"`
}
