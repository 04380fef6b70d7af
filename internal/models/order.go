package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusReserved  = "reserved"
	OrderStatusCollected = "collected"
	OrderStatusMissed    = "missed"
	OrderStatusExpired   = "expired"
)

// ErrOrderNotReserved is returned when a status change is attempted on an
// order that already left the reserved state.
var ErrOrderNotReserved = errors.New("order is not reserved")

// Order is a buyer's reservation against a deal. A buyer holds at most one
// order per deal; the composite unique index backs the handler-level
// existence check.
type Order struct {
	BaseModel
	BuyerID  uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_orders_buyer_deal" json:"buyer_id"`
	DealID   uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_orders_buyer_deal" json:"deal_id"`
	Deal     *Deal     `json:"deal,omitempty"`
	Quantity int       `json:"quantity"`
	Status   string    `gorm:"index" json:"status"`
	Notes    string    `json:"notes"`

	PickupCode  string     `json:"pickup_code"`
	CollectedAt *time.Time `json:"collected_at"`

	Tracking []OrderTracking `json:"tracking,omitempty"`
}

// Resolve moves a reserved order to collected or missed.
func (o *Order) Resolve(status string, now time.Time) error {
	if o.Status != OrderStatusReserved {
		return ErrOrderNotReserved
	}
	switch status {
	case OrderStatusCollected:
		o.Status = OrderStatusCollected
		o.CollectedAt = &now
	case OrderStatusMissed:
		o.Status = OrderStatusMissed
	default:
		return errors.New("invalid order status")
	}
	return nil
}

// OrderTracking is an append-only status/location event on an order.
type OrderTracking struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	Note      string    `json:"note"`
	EventTime time.Time `json:"event_time"`
}
