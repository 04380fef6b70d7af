package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const analyticsCacheTTL = 5 * time.Minute

// AnalyticsService aggregates vendor revenue figures with a short-lived
// Redis cache in front of the SQL. Cache failures are soft: logged and the
// query falls through to the database.
type AnalyticsService struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewAnalyticsService constructs an AnalyticsService. cache may be nil.
func NewAnalyticsService(db *gorm.DB, cache *redis.Client) *AnalyticsService {
	return &AnalyticsService{db: db, cache: cache}
}

// RevenueSummary is the aggregate of collected orders over a period.
type RevenueSummary struct {
	OrderCount   int64   `json:"order_count"`
	UnitsSold    int64   `json:"units_sold"`
	TotalRevenue float64 `json:"total_revenue"`
}

// DailyRevenue is one day's worth of collected-order revenue.
type DailyRevenue struct {
	Day     time.Time `json:"day"`
	Revenue float64   `json:"revenue"`
}

// RepeatBuyer is a buyer with more than one collected order at a vendor.
type RepeatBuyer struct {
	BuyerID    uuid.UUID `json:"buyer_id"`
	OrderCount int64     `json:"order_count"`
}

// GetRevenueSummary returns order count, units and revenue for collected
// orders against the vendor's deals within the last periodDays.
func (s *AnalyticsService) GetRevenueSummary(ctx context.Context, vendorID uuid.UUID, periodDays int) (*RevenueSummary, error) {
	key := fmt.Sprintf("analytics:revenue:%s:%d", vendorID, periodDays)
	var summary RevenueSummary
	if s.cacheGet(ctx, key, &summary) {
		return &summary, nil
	}

	since := time.Now().AddDate(0, 0, -periodDays)
	err := s.db.Raw(`
		SELECT COUNT(o.id) AS order_count,
		       COALESCE(SUM(o.quantity), 0) AS units_sold,
		       COALESCE(SUM(d.discounted_price * o.quantity), 0) AS total_revenue
		FROM orders o
		JOIN deals d ON d.id = o.deal_id
		WHERE d.vendor_id = ? AND o.status = 'collected' AND o.created_at >= ?`,
		vendorID, since,
	).Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, summary)
	return &summary, nil
}

// GetDailyRevenue returns per-day revenue for the last daysBack days.
func (s *AnalyticsService) GetDailyRevenue(ctx context.Context, vendorID uuid.UUID, daysBack int) ([]DailyRevenue, error) {
	key := fmt.Sprintf("analytics:daily:%s:%d", vendorID, daysBack)
	var rows []DailyRevenue
	if s.cacheGet(ctx, key, &rows) {
		return rows, nil
	}

	since := time.Now().AddDate(0, 0, -daysBack)
	err := s.db.Raw(`
		SELECT DATE_TRUNC('day', o.created_at) AS day,
		       COALESCE(SUM(d.discounted_price * o.quantity), 0) AS revenue
		FROM orders o
		JOIN deals d ON d.id = o.deal_id
		WHERE d.vendor_id = ? AND o.status = 'collected' AND o.created_at >= ?
		GROUP BY 1
		ORDER BY 1`,
		vendorID, since,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, rows)
	return rows, nil
}

// GetRepeatBuyers returns buyers holding more than one collected order
// against the vendor's deals.
func (s *AnalyticsService) GetRepeatBuyers(ctx context.Context, vendorID uuid.UUID) ([]RepeatBuyer, error) {
	key := fmt.Sprintf("analytics:repeat:%s", vendorID)
	var rows []RepeatBuyer
	if s.cacheGet(ctx, key, &rows) {
		return rows, nil
	}

	err := s.db.Raw(`
		SELECT o.buyer_id AS buyer_id, COUNT(o.id) AS order_count
		FROM orders o
		JOIN deals d ON d.id = o.deal_id
		WHERE d.vendor_id = ? AND o.status = 'collected'
		GROUP BY o.buyer_id
		HAVING COUNT(o.id) > 1
		ORDER BY COUNT(o.id) DESC`,
		vendorID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *AnalyticsService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}

	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Analytics] cache get %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("[Analytics] cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, raw, analyticsCacheTTL).Err(); err != nil {
		log.Printf("[Analytics] cache set %s: %v", key, err)
	}
}
