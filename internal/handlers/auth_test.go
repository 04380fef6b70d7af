package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/nearbuy/internal/config"
	"github.com/example/nearbuy/internal/utils"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gdb, mock
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
	}
}

func postJSON(t *testing.T, app *fiber.App, target string, payload interface{}, token string) int {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func otpRows(t *testing.T, phone, code string, createdAt time.Time) *sqlmock.Rows {
	t.Helper()

	hash, err := utils.HashOTPCode(code)
	require.NoError(t, err)

	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "phone", "code_hash"}).
		AddRow(uuid.New().String(), createdAt, createdAt, phone, hash)
}

func userRows(phone, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "created_at", "updated_at", "first_name", "last_name", "phone", "role", "is_verified"}).
		AddRow(uuid.New().String(), now, now, "Ava", "Rahimova", phone, role, true)
}

func TestVerifyOTPSingleUse(t *testing.T) {
	gdb, mock := newMockDB(t)
	cfg := testConfig()
	handler := NewAuthHandler(gdb, cfg)

	app := fiber.New()
	app.Post("/verify", handler.VerifyOTP)

	const phone = "+998901234567"
	const code = "482913"
	payload := map[string]string{"phone": phone, "code": code}

	// First verification: code matched, row deleted, token issued.
	mock.ExpectQuery(`SELECT \* FROM "otps" WHERE phone = \$1`).
		WillReturnRows(otpRows(t, phone, code, time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "otps"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE phone = \$1`).
		WillReturnRows(userRows(phone, "buyer"))

	assert.Equal(t, fiber.StatusOK, postJSON(t, app, "/verify", payload, ""))

	// Second verification with the same code: the row is gone.
	mock.ExpectQuery(`SELECT \* FROM "otps" WHERE phone = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "phone", "code_hash"}))

	assert.Equal(t, fiber.StatusNotFound, postJSON(t, app, "/verify", payload, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	gdb, mock := newMockDB(t)
	handler := NewAuthHandler(gdb, testConfig())

	app := fiber.New()
	app.Post("/verify", handler.VerifyOTP)

	const phone = "+998901234567"
	mock.ExpectQuery(`SELECT \* FROM "otps" WHERE phone = \$1`).
		WillReturnRows(otpRows(t, phone, "482913", time.Now().Add(-6*time.Minute)))

	payload := map[string]string{"phone": phone, "code": "482913"}
	assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/verify", payload, ""))

	// The stale row survives a failed attempt; only the sweep removes it.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyOTPWrongCode(t *testing.T) {
	gdb, mock := newMockDB(t)
	handler := NewAuthHandler(gdb, testConfig())

	app := fiber.New()
	app.Post("/verify", handler.VerifyOTP)

	const phone = "+998901234567"
	mock.ExpectQuery(`SELECT \* FROM "otps" WHERE phone = \$1`).
		WillReturnRows(otpRows(t, phone, "482913", time.Now()))

	payload := map[string]string{"phone": phone, "code": "111111"}
	assert.Equal(t, fiber.StatusBadRequest, postJSON(t, app, "/verify", payload, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}
