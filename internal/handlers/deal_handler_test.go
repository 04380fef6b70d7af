package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/nearbuy/internal/middleware"
	"github.com/example/nearbuy/internal/models"
	"github.com/example/nearbuy/internal/realtime"
	"github.com/example/nearbuy/internal/utils"
)

func TestUpdateDealRejectsPastExpiry(t *testing.T) {
	gdb, mock := newMockDB(t)
	cfg := testConfig()
	handler := NewDealHandler(gdb, realtime.NewHub())

	app := fiber.New()
	app.Put("/deals/:id", middleware.AuthMiddleware(cfg), handler.UpdateDeal)

	vendorID := uuid.New()
	dealID := uuid.New()
	token, err := utils.GenerateToken(cfg.JWTSecret, vendorID, models.RoleVendor, cfg.TokenExpires)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "deals" WHERE id = \$1 AND vendor_id = \$2`).
		WillReturnRows(dealRows(dealID, vendorID, models.DealStatusActive, time.Now().Add(time.Hour)))

	payload := map[string]interface{}{"expires_at": time.Now().Add(-time.Hour)}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/deals/"+dealID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Rejected before any write.
	assert.NoError(t, mock.ExpectationsWereMet())
}
