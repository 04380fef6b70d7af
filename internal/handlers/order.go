package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/nearbuy/internal/middleware"
	"github.com/example/nearbuy/internal/models"
	"github.com/example/nearbuy/internal/realtime"
	"github.com/example/nearbuy/internal/services"
	"github.com/example/nearbuy/internal/utils"
)

// OrderHandler manages reservation endpoints.
type OrderHandler struct {
	db       *gorm.DB
	hub      *realtime.Hub
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, hub *realtime.Hub, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, hub: hub, telegram: telegram}
}

type reserveRequest struct {
	DealID   string `json:"deal_id" validate:"required,uuid4"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Notes    string `json:"notes"`
}

// Reserve places a buyer's reservation against a live deal. A buyer holds
// at most one order per deal. Stock is not decremented here; the vendor
// reconciles remaining quantity through the quantity endpoint.
func (h *OrderHandler) Reserve(c *fiber.Ctx) error {
	buyerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req reserveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	dealID, err := uuid.Parse(req.DealID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid deal_id")
	}

	var deal models.Deal
	if err := h.db.Preload("Vendor").First(&deal, "id = ?", dealID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "deal not found")
		}
		return err
	}

	if !deal.Live(time.Now()) {
		return fiber.NewError(fiber.StatusConflict, "deal is no longer available")
	}

	var existing models.Order
	err = h.db.Where("buyer_id = ? AND deal_id = ?", buyerID, dealID).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "deal already reserved")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	order := models.Order{
		BuyerID:    buyerID,
		DealID:     dealID,
		Quantity:   quantity,
		Status:     models.OrderStatusReserved,
		Notes:      req.Notes,
		PickupCode: generatePickupCode(),
	}

	if err := h.db.Create(&order).Error; err != nil {
		// A concurrent reservation can slip past the existence check and
		// land on the (buyer_id, deal_id) unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fiber.NewError(fiber.StatusConflict, "deal already reserved")
		}
		return err
	}

	h.hub.Broadcast("orders", realtime.ActionInsert)

	go h.notifyReservation(order, deal, buyerID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":          order.ID,
			"deal_id":     order.DealID,
			"quantity":    order.Quantity,
			"status":      order.Status,
			"pickup_code": order.PickupCode,
		},
	})
}

func (h *OrderHandler) notifyReservation(order models.Order, deal models.Deal, buyerID uuid.UUID) {
	if h.telegram == nil {
		return
	}

	var buyer models.User
	buyerPhone := ""
	if err := h.db.First(&buyer, "id = ?", buyerID).Error; err == nil {
		buyerPhone = buyer.Phone
	}

	shopName := ""
	if deal.Vendor != nil {
		shopName = deal.Vendor.ShopName
	}

	notification := services.ReservationNotification{
		OrderID:    order.ID.String(),
		DealTitle:  deal.Title,
		ShopName:   shopName,
		BuyerPhone: buyerPhone,
		Quantity:   order.Quantity,
		PickupCode: order.PickupCode,
	}

	if err := h.telegram.NotifyNewReservation(notification); err != nil {
		log.Printf("[Order] Telegram notification failed: %v", err)
	}
}

// ListOrders returns the authenticated buyer's orders.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	buyerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("buyer_id = ?", buyerID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Deal").Preload("Deal.Vendor").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated buyer.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	buyerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Deal").Preload("Tracking").
		First(&order, "id = ? AND buyer_id = ?", id, buyerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type resolveOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=collected missed"`
}

// ResolveOrder lets the vendor owning the deal mark a reserved order
// collected or missed.
func (h *OrderHandler) ResolveOrder(c *fiber.Ctx) error {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req resolveOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var order models.Order
	if err := h.db.Joins("JOIN deals ON deals.id = orders.deal_id").
		Where("orders.id = ? AND deals.vendor_id = ?", id, vendorID).
		First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	now := time.Now()
	if err := order.Resolve(req.Status, now); err != nil {
		if err == models.ErrOrderNotReserved {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]interface{}{"status": order.Status}
	if order.CollectedAt != nil {
		updates["collected_at"] = order.CollectedAt
	}
	if err := h.db.Model(&order).Updates(updates).Error; err != nil {
		return err
	}

	tracking := models.OrderTracking{
		OrderID:   order.ID,
		Status:    order.Status,
		EventTime: now,
	}
	if err := h.db.Create(&tracking).Error; err != nil {
		return err
	}

	h.hub.Broadcast("orders", realtime.ActionUpdate)

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type trackingRequest struct {
	Status   string `json:"status" validate:"required"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

// AddTracking appends a tracking event to an order on one of the vendor's
// deals.
func (h *OrderHandler) AddTracking(c *fiber.Ctx) error {
	vendorID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req trackingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var order models.Order
	if err := h.db.Joins("JOIN deals ON deals.id = orders.deal_id").
		Where("orders.id = ? AND deals.vendor_id = ?", id, vendorID).
		First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	tracking := models.OrderTracking{
		OrderID:   order.ID,
		Status:    req.Status,
		Location:  req.Location,
		Note:      req.Note,
		EventTime: time.Now(),
	}

	if err := h.db.Create(&tracking).Error; err != nil {
		return err
	}

	h.hub.Broadcast("orders", realtime.ActionUpdate)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": tracking})
}

// ListTracking returns the tracking history for one of the buyer's orders.
func (h *OrderHandler) ListTracking(c *fiber.Ctx) error {
	buyerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ? AND buyer_id = ?", id, buyerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	var events []models.OrderTracking
	if err := h.db.Where("order_id = ?", order.ID).
		Order("event_time asc").
		Find(&events).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": events})
}

func generatePickupCode() string {
	return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
}
