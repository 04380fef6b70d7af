package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
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

func TestGetRevenueSummary(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewAnalyticsService(gdb, nil)
	vendorID := uuid.New()

	rows := sqlmock.NewRows([]string{"order_count", "units_sold", "total_revenue"}).
		AddRow(4, 7, 96.5)
	mock.ExpectQuery(`SELECT COUNT\(o\.id\) AS order_count`).WillReturnRows(rows)

	summary, err := svc.GetRevenueSummary(context.Background(), vendorID, 30)
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.OrderCount)
	assert.Equal(t, int64(7), summary.UnitsSold)
	assert.InDelta(t, 96.5, summary.TotalRevenue, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRevenueSummaryEmpty(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewAnalyticsService(gdb, nil)

	rows := sqlmock.NewRows([]string{"order_count", "units_sold", "total_revenue"}).
		AddRow(0, 0, 0.0)
	mock.ExpectQuery(`SELECT COUNT\(o\.id\) AS order_count`).WillReturnRows(rows)

	summary, err := svc.GetRevenueSummary(context.Background(), uuid.New(), 7)
	require.NoError(t, err)

	assert.Zero(t, summary.OrderCount)
	assert.Zero(t, summary.TotalRevenue)
}

func TestGetDailyRevenue(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewAnalyticsService(gdb, nil)

	day1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"day", "revenue"}).
		AddRow(day1, 42.0).
		AddRow(day2, 13.5)
	mock.ExpectQuery(`DATE_TRUNC\('day', o\.created_at\) AS day`).WillReturnRows(rows)

	daily, err := svc.GetDailyRevenue(context.Background(), uuid.New(), 7)
	require.NoError(t, err)

	require.Len(t, daily, 2)
	assert.Equal(t, day1, daily[0].Day)
	assert.InDelta(t, 42.0, daily[0].Revenue, 1e-9)
	assert.InDelta(t, 13.5, daily[1].Revenue, 1e-9)
}

func TestGetRepeatBuyers(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewAnalyticsService(gdb, nil)

	buyer := uuid.New()
	rows := sqlmock.NewRows([]string{"buyer_id", "order_count"}).
		AddRow(buyer.String(), 3)
	mock.ExpectQuery(`HAVING COUNT\(o\.id\) > 1`).WillReturnRows(rows)

	repeat, err := svc.GetRepeatBuyers(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, repeat, 1)
	assert.Equal(t, buyer, repeat[0].BuyerID)
	assert.Equal(t, int64(3), repeat[0].OrderCount)
}
