package handlers

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/nearbuy/internal/middleware"
	"github.com/example/nearbuy/internal/models"
	"github.com/example/nearbuy/internal/realtime"
	"github.com/example/nearbuy/internal/utils"
)

func dealRows(dealID, vendorID uuid.UUID, status string, expiresAt time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "vendor_id", "title",
		"original_price", "discount_percent", "discounted_price",
		"quantity", "remaining_quantity", "expires_at", "status",
	}).AddRow(
		dealID.String(), now, now, vendorID.String(), "day-old pastries",
		10.0, 40.0, 6.0, 10, 10, expiresAt, status,
	)
}

func TestReserveDuplicateOnUniqueIndex(t *testing.T) {
	gdb, mock := newMockDB(t)
	cfg := testConfig()
	handler := NewOrderHandler(gdb, realtime.NewHub(), nil)

	app := fiber.New()
	app.Post("/orders", middleware.AuthMiddleware(cfg), handler.Reserve)

	buyerID := uuid.New()
	dealID := uuid.New()
	token, err := utils.GenerateToken(cfg.JWTSecret, buyerID, models.RoleBuyer, cfg.TokenExpires)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "deals" WHERE id = \$1`).
		WillReturnRows(dealRows(dealID, uuid.New(), models.DealStatusActive, time.Now().Add(time.Hour)))
	mock.ExpectQuery(`SELECT \* FROM "vendor_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "shop_name"}))

	// Existence check sees nothing...
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE buyer_id = \$1 AND deal_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// ...but a concurrent reservation already took the unique index.
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "orders"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	payload := map[string]interface{}{"deal_id": dealID.String(), "quantity": 1}
	assert.Equal(t, fiber.StatusConflict, postJSON(t, app, "/orders", payload, token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRejectsDeadDeal(t *testing.T) {
	gdb, mock := newMockDB(t)
	cfg := testConfig()
	handler := NewOrderHandler(gdb, realtime.NewHub(), nil)

	app := fiber.New()
	app.Post("/orders", middleware.AuthMiddleware(cfg), handler.Reserve)

	buyerID := uuid.New()
	dealID := uuid.New()
	token, err := utils.GenerateToken(cfg.JWTSecret, buyerID, models.RoleBuyer, cfg.TokenExpires)
	require.NoError(t, err)

	// Active in the status column but already past expiry.
	mock.ExpectQuery(`SELECT \* FROM "deals" WHERE id = \$1`).
		WillReturnRows(dealRows(dealID, uuid.New(), models.DealStatusActive, time.Now().Add(-time.Minute)))
	mock.ExpectQuery(`SELECT \* FROM "vendor_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "shop_name"}))

	payload := map[string]interface{}{"deal_id": dealID.String(), "quantity": 1}
	assert.Equal(t, fiber.StatusConflict, postJSON(t, app, "/orders", payload, token))
	assert.NoError(t, mock.ExpectationsWereMet())
}
