package search

import (
	"sort"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"
)

// Predicate - одно условие фильтра
type Predicate func(l domain.Listing) bool

// Compose строит конъюнкцию условий по фильтру. Условие по расстоянию
// сюда не входит, его считает Apply, потому что расстояние нужно и для сортировки.
func Compose(filter domain.SearchFilter) []Predicate {
	f := newFolder()
	predicates := []Predicate{
		func(l domain.Listing) bool { return l.Active },
	}

	if filter.Neighborhood != "" {
		needle := filter.Neighborhood
		predicates = append(predicates, func(l domain.Listing) bool {
			return f.contains(l.Neighborhood, needle)
		})
	}
	if filter.City != "" {
		needle := filter.City
		predicates = append(predicates, func(l domain.Listing) bool {
			return f.contains(l.City, needle)
		})
	}
	if filter.PriceMin != nil {
		min := *filter.PriceMin
		predicates = append(predicates, func(l domain.Listing) bool { return l.Price >= min })
	}
	if filter.PriceMax != nil {
		max := *filter.PriceMax
		predicates = append(predicates, func(l domain.Listing) bool { return l.Price <= max })
	}
	if filter.BedroomCount != nil {
		bedrooms := *filter.BedroomCount
		predicates = append(predicates, func(l domain.Listing) bool { return l.BedroomCount == bedrooms })
	}
	if filter.Typology != "" {
		typology := filter.Typology
		predicates = append(predicates, func(l domain.Listing) bool { return l.Typology == typology })
	}
	if filter.Status != "" {
		status := filter.Status
		predicates = append(predicates, func(l domain.Listing) bool { return l.Status == status })
	}
	if len(filter.AmenityIDs) > 0 {
		ids := filter.AmenityIDs
		predicates = append(predicates, func(l domain.Listing) bool { return l.HasAnyAmenity(ids) })
	}

	return predicates
}

func matchAll(l domain.Listing, predicates []Predicate) bool {
	for _, p := range predicates {
		if !p(l) {
			return false
		}
	}
	return true
}

// Apply возвращает полный отфильтрованный и упорядоченный набор
func Apply(listings []domain.Listing, filter domain.SearchFilter) []domain.SearchHit {
	filter = filter.Normalize()
	predicates := Compose(filter)

	hits := make([]domain.SearchHit, 0)
	for _, l := range listings {
		if !matchAll(l, predicates) {
			continue
		}
		hit := domain.SearchHit{Listing: l}
		if p := filter.Proximity; p != nil {
			d := geo.Haversine(p.Latitude, p.Longitude, l.Latitude, l.Longitude)
			if d > p.RadiusKm {
				continue
			}
			hit.DistanceKm = &d
		}
		hits = append(hits, hit)
	}

	Order(hits, filter.Proximity != nil)
	return hits
}

// Order - по расстоянию (если искали по точке) или от новых к старым; при равенстве по id
func Order(hits []domain.SearchHit, byDistance bool) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if byDistance && a.DistanceKm != nil && b.DistanceKm != nil && *a.DistanceKm != *b.DistanceKm {
			return *a.DistanceKm < *b.DistanceKm
		}
		if !byDistance && !a.Listing.PublishedAt.Equal(b.Listing.PublishedAt) {
			return a.Listing.PublishedAt.After(b.Listing.PublishedAt)
		}
		return a.Listing.ID < b.Listing.ID
	})
}

// MatchText - подстрока в заголовке, описании, районе или городе
func MatchText(listings []domain.Listing, term string) []domain.SearchHit {
	f := newFolder()
	hits := make([]domain.SearchHit, 0)
	for _, l := range listings {
		if !l.Active {
			continue
		}
		if f.contains(l.Title, term) || f.contains(l.Description, term) ||
			f.contains(l.Neighborhood, term) || f.contains(l.City, term) {
			hits = append(hits, domain.SearchHit{Listing: l})
		}
	}
	Order(hits, false)
	return hits
}
