package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deal statuses. Transitions are active -> sold and active -> expired;
// both terminal states are irreversible.
const (
	DealStatusActive  = "active"
	DealStatusSold    = "sold"
	DealStatusExpired = "expired"
)

var (
	// ErrQuantityOutOfRange is returned when a remaining-quantity update
	// falls outside [0, quantity].
	ErrQuantityOutOfRange = errors.New("remaining quantity out of range")

	// ErrDealNotActive is returned when a transition is attempted on a
	// deal already in a terminal state.
	ErrDealNotActive = errors.New("deal is not active")
)

// Deal is a vendor's time-boxed, quantity-limited discounted offer.
type Deal struct {
	BaseModel
	VendorID          uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id"`
	Vendor            *VendorProfile `gorm:"foreignKey:VendorID;references:UserID" json:"vendor,omitempty"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	OriginalPrice     float64        `json:"original_price"`
	DiscountPercent   float64        `json:"discount_percent"`
	DiscountedPrice   float64        `json:"discounted_price"`
	Quantity          int            `json:"quantity"`
	RemainingQuantity int            `json:"remaining_quantity"`
	ExpiresAt         time.Time      `gorm:"index" json:"expires_at"`
	Status            string         `gorm:"index" json:"status"`
	ImageURL          string         `json:"image_url"`
}

// BeforeSave keeps the derived discounted price in sync with its inputs.
func (d *Deal) BeforeSave(tx *gorm.DB) error {
	d.DiscountedPrice = d.OriginalPrice * (1 - d.DiscountPercent/100)
	return nil
}

// ApplyRemainingQuantity sets a vendor-supplied stock count. The value must
// lie in [0, Quantity]; reaching 0 forces the deal to sold in the same
// update.
func (d *Deal) ApplyRemainingQuantity(remaining int) error {
	if d.Status != DealStatusActive {
		return ErrDealNotActive
	}
	if remaining < 0 || remaining > d.Quantity {
		return ErrQuantityOutOfRange
	}

	d.RemainingQuantity = remaining
	if remaining == 0 {
		d.Status = DealStatusSold
	}
	return nil
}

// MarkSold transitions an active deal to sold.
func (d *Deal) MarkSold() error {
	if d.Status != DealStatusActive {
		return ErrDealNotActive
	}
	d.Status = DealStatusSold
	return nil
}

// ExpireIfDue flips an active deal past its expiry to expired and reports
// whether a transition happened.
func (d *Deal) ExpireIfDue(now time.Time) bool {
	if d.Status != DealStatusActive {
		return false
	}
	if !d.ExpiresAt.After(now) {
		d.Status = DealStatusExpired
		return true
	}
	return false
}

// Live reports whether the deal should appear on buyer-facing listings:
// active and not past expiry, regardless of the stored status column.
func (d *Deal) Live(now time.Time) bool {
	return d.Status == DealStatusActive && d.ExpiresAt.After(now)
}

// DealTemplate is a vendor-saved blueprint for recurring deals.
type DealTemplate struct {
	BaseModel
	VendorID        uuid.UUID `gorm:"type:uuid;index" json:"vendor_id"`
	Name            string    `json:"name"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	OriginalPrice   float64   `json:"original_price"`
	DiscountPercent float64   `json:"discount_percent"`
	Quantity        int       `json:"quantity"`
	DurationHours   int       `json:"duration_hours"`
	ImageURL        string    `json:"image_url"`
}

// NewDeal instantiates a deal from the template, expiring DurationHours
// from now.
func (t *DealTemplate) NewDeal(now time.Time) Deal {
	return Deal{
		VendorID:          t.VendorID,
		Title:             t.Title,
		Description:       t.Description,
		OriginalPrice:     t.OriginalPrice,
		DiscountPercent:   t.DiscountPercent,
		Quantity:          t.Quantity,
		RemainingQuantity: t.Quantity,
		ExpiresAt:         now.Add(time.Duration(t.DurationHours) * time.Hour),
		Status:            DealStatusActive,
		ImageURL:          t.ImageURL,
	}
}
