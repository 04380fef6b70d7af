package models

import (
	"time"
)

// User roles.
const (
	RoleVendor = "vendor"
	RoleBuyer  = "buyer"
)

// User represents an authenticated account, either a vendor or a buyer.
type User struct {
	BaseModel
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `gorm:"uniqueIndex" json:"phone"`
	Role       string `gorm:"index" json:"role"`
	IsVerified bool   `json:"is_verified"`

	VendorProfile *VendorProfile `json:"vendor_profile,omitempty"`
	BuyerProfile  *BuyerProfile  `json:"buyer_profile,omitempty"`
}

// OTPValidity is how long a verification code stays usable.
const OTPValidity = 5 * time.Minute

// OTP is an ephemeral phone-verification code. The code itself is stored
// bcrypt-hashed; rows are deleted after successful verification and swept
// once stale.
type OTP struct {
	BaseModel
	Phone    string `gorm:"index" json:"phone"`
	CodeHash string `json:"-"`
}

// Expired reports whether the code's 5-minute validity window has passed.
func (o *OTP) Expired(now time.Time) bool {
	return now.Sub(o.CreatedAt) > OTPValidity
}
