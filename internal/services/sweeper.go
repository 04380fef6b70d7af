package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/example/nearbuy/internal/models"
	"github.com/example/nearbuy/internal/realtime"
)

// Sweeper periodically expires overdue deals and purges stale OTP rows, so
// expiry does not depend on a vendor happening to read their listing.
type Sweeper struct {
	db   *gorm.DB
	hub  *realtime.Hub
	cron *cron.Cron
}

// NewSweeper constructs a Sweeper publishing to the given hub.
func NewSweeper(db *gorm.DB, hub *realtime.Hub) *Sweeper {
	return &Sweeper{db: db, hub: hub, cron: cron.New()}
}

// Start schedules the sweep with the given cron spec and runs it until Stop.
func (s *Sweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep runs one pass: active deals past expiry flip to expired, reserved
// orders on expired deals follow, and OTP rows older than their validity
// window are deleted.
func (s *Sweeper) Sweep() {
	now := time.Now()

	res := s.db.Model(&models.Deal{}).
		Where("status = ? AND expires_at <= ?", models.DealStatusActive, now).
		Update("status", models.DealStatusExpired)
	if res.Error != nil {
		log.Printf("[Sweeper] deal expiry sweep failed: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[Sweeper] expired %d deals", res.RowsAffected)
		s.hub.Broadcast("deals", realtime.ActionUpdate)
	}

	res = s.db.Model(&models.Order{}).
		Where("status = ? AND deal_id IN (?)",
			models.OrderStatusReserved,
			s.db.Model(&models.Deal{}).Select("id").Where("status = ?", models.DealStatusExpired),
		).
		Update("status", models.OrderStatusExpired)
	if res.Error != nil {
		log.Printf("[Sweeper] order expiry sweep failed: %v", res.Error)
	} else if res.RowsAffected > 0 {
		log.Printf("[Sweeper] expired %d uncollected orders", res.RowsAffected)
		s.hub.Broadcast("orders", realtime.ActionUpdate)
	}

	cutoff := now.Add(-models.OTPValidity)
	if err := s.db.Where("created_at < ?", cutoff).
		Delete(&models.OTP{}).Error; err != nil {
		log.Printf("[Sweeper] otp purge failed: %v", err)
	}
}
