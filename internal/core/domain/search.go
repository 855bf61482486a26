package domain

import (
	"fmt"
	"math"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 50

	DefaultRadiusKm = 10.0

	SuggestionLimit = 5
	HistogramBins   = 10
)

// ProximityFilter - точка и радиус поиска. Нулевой радиус означает ровно точку,
// значение по умолчанию подставляет входной слой, когда радиус не передан.
type ProximityFilter struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
}

// Validate проверяет координаты и радиус
func (p ProximityFilter) Validate() error {
	if !isFinite(p.Latitude) || !isFinite(p.Longitude) || !isFinite(p.RadiusKm) {
		return fmt.Errorf("%w: coordinates and radius must be finite numbers", ErrInvalidFilter)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be within [-90, 90]", ErrInvalidFilter)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be within [-180, 180]", ErrInvalidFilter)
	}
	if p.RadiusKm < 0 {
		return fmt.Errorf("%w: radius must not be negative", ErrInvalidFilter)
	}
	return nil
}

// isFinite отсекает NaN и бесконечности: с ними любые сравнения ложны
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SearchFilter - набор фильтров расширенного поиска, живет в рамках запроса.
// Пустые значения означают отсутствие ограничения.
type SearchFilter struct {
	Neighborhood string
	City         string
	PriceMin     *float64
	PriceMax     *float64
	BedroomCount *int
	Typology     string
	Status       ListingStatus
	AmenityIDs   []int64
	Proximity    *ProximityFilter

	Page     int
	PageSize int
}

// Normalize подставляет значения по умолчанию
func (f SearchFilter) Normalize() SearchFilter {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// Validate проверяет уже нормализованный фильтр
func (f SearchFilter) Validate() error {
	if f.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidFilter)
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		return fmt.Errorf("%w: pageSize must be within [1, %d]", ErrInvalidFilter, MaxPageSize)
	}
	if (f.PriceMin != nil && !isFinite(*f.PriceMin)) || (f.PriceMax != nil && !isFinite(*f.PriceMax)) {
		return fmt.Errorf("%w: price bounds must be finite numbers", ErrInvalidFilter)
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return fmt.Errorf("%w: priceMin is greater than priceMax", ErrInvalidFilter)
	}
	if f.Status != "" {
		if _, err := ParseListingStatus(string(f.Status)); err != nil {
			return err
		}
	}
	if f.Proximity != nil {
		return f.Proximity.Validate()
	}
	return nil
}

// SearchHit - строка результата поиска, расстояние есть только при поиске по точке
type SearchHit struct {
	Listing    Listing  `json:"listing"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// PaginatedListings - страница результатов и счетчики по всему набору
type PaginatedListings struct {
	Results    []SearchHit `json:"results"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// TextQuery - полнотекстовый (подстрочный) поиск
type TextQuery struct {
	Term     string
	Page     int
	PageSize int
}

// Suggestions - подсказки автодополнения
type Suggestions struct {
	Neighborhoods []string `json:"neighborhoods"`
	Cities        []string `json:"cities"`
	Titles        []string `json:"titles"`
}

// FilterOptions - значения для панели фильтров
type FilterOptions struct {
	Neighborhoods     []string        `json:"neighborhoods"`
	Cities            []string        `json:"cities"`
	Statuses          []ListingStatus `json:"statuses"`
	PriceMin          float64         `json:"price_min"`
	PriceMax          float64         `json:"price_max"`
	PriceDistribution []int           `json:"price_distribution"`
	Bedrooms          []int           `json:"bedrooms"`
	Bathrooms         []int           `json:"bathrooms"`
	Amenities         []Amenity       `json:"amenities"`
}
