package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/example/nearbuy/internal/geo"
	"github.com/example/nearbuy/internal/models"
)

// NearbyDeal pairs a live deal with its distance from the caller.
type NearbyDeal struct {
	models.Deal
	DistanceKm float64 `json:"distance_km"`
}

// NearbyVendor pairs a vendor profile with its distance and live deal count.
type NearbyVendor struct {
	models.VendorProfile
	DistanceKm    float64 `json:"distance_km"`
	LiveDealCount int64   `json:"live_deal_count"`
}

// NearbyDeals returns all live deals within radiusKm of the given point,
// ordered by ascending distance with newer deals first on ties. Expiry is
// evaluated against the expires_at column at query time, never by mutating
// stored status on this path.
func NearbyDeals(db *gorm.DB, lat, lon, radiusKm float64, now time.Time) ([]NearbyDeal, error) {
	var deals []models.Deal
	err := db.Preload("Vendor").
		Where("status = ? AND expires_at > ?", models.DealStatusActive, now).
		Find(&deals).Error
	if err != nil {
		return nil, err
	}

	return FilterDealsByDistance(deals, lat, lon, radiusKm), nil
}

// FilterDealsByDistance applies the radius filter and ordering contract to
// an in-memory slice. Deals without vendor coordinates are skipped.
func FilterDealsByDistance(deals []models.Deal, lat, lon, radiusKm float64) []NearbyDeal {
	result := make([]NearbyDeal, 0, len(deals))
	for _, d := range deals {
		if d.Vendor == nil {
			continue
		}
		dist := geo.Distance(lat, lon, d.Vendor.Latitude, d.Vendor.Longitude)
		if dist <= radiusKm {
			result = append(result, NearbyDeal{Deal: d, DistanceKm: dist})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DistanceKm != result[j].DistanceKm {
			return result[i].DistanceKm < result[j].DistanceKm
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

// NearbyVendors returns vendor profiles within radiusKm, each annotated
// with its count of live deals, ordered by ascending distance.
func NearbyVendors(db *gorm.DB, lat, lon, radiusKm float64, now time.Time) ([]NearbyVendor, error) {
	var profiles []models.VendorProfile
	if err := db.Find(&profiles).Error; err != nil {
		return nil, err
	}

	type dealCount struct {
		VendorID string
		Count    int64
	}
	var counts []dealCount
	err := db.Model(&models.Deal{}).
		Select("vendor_id, COUNT(*) AS count").
		Where("status = ? AND expires_at > ?", models.DealStatusActive, now).
		Group("vendor_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	countByVendor := make(map[string]int64, len(counts))
	for _, dc := range counts {
		countByVendor[dc.VendorID] = dc.Count
	}

	result := make([]NearbyVendor, 0, len(profiles))
	for _, p := range profiles {
		dist := geo.Distance(lat, lon, p.Latitude, p.Longitude)
		if dist <= radiusKm {
			result = append(result, NearbyVendor{
				VendorProfile: p,
				DistanceKm:    dist,
				LiveDealCount: countByVendor[p.UserID.String()],
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})

	return result, nil
}
