package postgres_adapter

import (
	"testing"

	"listing-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestApplySearchFilter(t *testing.T) {
	min, max, bedrooms := 1000.0, 3000.0, 2
	where, args := applySearchFilter(domain.SearchFilter{
		City:         "São_Paulo",
		PriceMin:     &min,
		PriceMax:     &max,
		BedroomCount: &bedrooms,
		Status:       domain.StatusPromotion,
		AmenityIDs:   []int64{1, 2},
	})

	assert.Equal(t,
		"WHERE l.active = TRUE AND l.city ILIKE $1 AND l.price >= $2 AND l.price <= $3 AND "+
			"l.bedroom_count = $4 AND l.status = $5 AND "+
			"EXISTS (SELECT 1 FROM listing_amenities la WHERE la.listing_id = l.id AND la.amenity_id = ANY($6))",
		where)
	assert.Equal(t, []interface{}{`%São\_Paulo%`, 1000.0, 3000.0, 2, "promotion", []int64{1, 2}}, args)
}

func TestApplySearchFilter_ProximityAddsBox(t *testing.T) {
	where, args := applySearchFilter(domain.SearchFilter{
		Proximity: &domain.ProximityFilter{Latitude: 35.68, Longitude: 139.76, RadiusKm: 10},
	})
	assert.Contains(t, where, "l.latitude >= $1 AND l.latitude <= $2 AND l.longitude >= $3 AND l.longitude <= $4")
	assert.Len(t, args, 4)

	// у полюса долгота не ограничивается
	where, args = applySearchFilter(domain.SearchFilter{
		Proximity: &domain.ProximityFilter{Latitude: 89.99, Longitude: 0, RadiusKm: 50},
	})
	assert.NotContains(t, where, "l.longitude")
	assert.Len(t, args, 2)
}

func TestAddAnyContains(t *testing.T) {
	qb := newQueryBuilder()
	qb.AddAnyContains([]string{"l.title", "l.city"}, "100%")
	where, args := qb.build()

	assert.Equal(t, "WHERE l.active = TRUE AND (l.title ILIKE $1 OR l.city ILIKE $1)", where)
	assert.Equal(t, []interface{}{`%100\%%`}, args)
}
