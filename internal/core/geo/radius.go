package geo

import (
	"sort"

	"listing-service/internal/core/domain"
)

// WithinRadius считает расстояние до каждого активного объявления, оставляет те,
// что не дальше radiusKm (граница включается), сортирует по расстоянию,
// при равенстве по id, и обрезает до limit. limit <= 0 - без ограничения.
func WithinRadius(candidates []domain.Listing, lat, lng, radiusKm float64, limit int) []domain.NearbyListing {
	result := make([]domain.NearbyListing, 0)
	for _, l := range candidates {
		if !l.Active {
			continue
		}
		d := Haversine(lat, lng, l.Latitude, l.Longitude)
		if d <= radiusKm {
			result = append(result, domain.NearbyListing{Listing: l, DistanceKm: d})
		}
	}

	SortByDistance(result)

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// SortByDistance - по возрастанию расстояния, затем по id
func SortByDistance(items []domain.NearbyListing) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DistanceKm != items[j].DistanceKm {
			return items[i].DistanceKm < items[j].DistanceKm
		}
		return items[i].Listing.ID < items[j].Listing.ID
	})
}
