package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/ariebrainware/alert-board/model"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"gorm.io/gorm"
)

// NearbyLocation is a location with its great-circle distance from the search point.
type NearbyLocation struct {
	model.Location
	DistanceKm float64 `json:"distance_km"`
}

// Locations lists every location alphabetically.
func Locations(ctx context.Context, db *gorm.DB) ([]model.Location, error) {
	var locs []model.Location
	err := db.WithContext(ctx).Order(model.LocationDefaultOrder).Find(&locs).Error
	return locs, err
}

// LocationPage returns the 1-based page of locations, alphabetically, and
// the total number of locations.
func LocationPage(ctx context.Context, db *gorm.DB, page, size int) ([]model.Location, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return nil, 0, fmt.Errorf("page size must be positive, got %d", size)
	}
	var total int64
	if err := db.WithContext(ctx).Model(&model.Location{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var locs []model.Location
	err := db.WithContext(ctx).
		Order(model.LocationDefaultOrder).
		Offset((page - 1) * size).
		Limit(size).
		Find(&locs).Error
	return locs, total, err
}

// Nearby returns the locations with coordinates within radiusKm of center,
// closest first. center is (longitude, latitude).
func Nearby(ctx context.Context, db *gorm.DB, center orb.Point, radiusKm float64) ([]NearbyLocation, error) {
	radiusM := radiusKm * 1000
	bound := geo.NewBoundAroundPoint(center, radiusM)

	var candidates []model.Location
	err := db.WithContext(ctx).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("latitude BETWEEN ? AND ?", bound.Min.Lat(), bound.Max.Lat()).
		Order(model.LocationDefaultOrder).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	out := make([]NearbyLocation, 0, len(candidates))
	for _, loc := range candidates {
		d := geo.DistanceHaversine(center, orb.Point{*loc.Longitude, *loc.Latitude})
		if d <= radiusM {
			out = append(out, NearbyLocation{Location: loc, DistanceKm: d / 1000})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out, nil
}
