package domain

import (
	"fmt"
	"strings"
	"time"
)

// ListingStatus - жизненный цикл объявления
type ListingStatus string

const (
	StatusAvailable  ListingStatus = "available"
	StatusRented     ListingStatus = "rented"
	StatusPromotion  ListingStatus = "promotion"
	StatusUnmissable ListingStatus = "unmissable"
)

// AllStatuses в порядке, в котором их показывает фронтенд
var AllStatuses = []ListingStatus{StatusAvailable, StatusRented, StatusPromotion, StatusUnmissable}

// ParseListingStatus проверяет строку на принадлежность перечислению
func ParseListingStatus(s string) (ListingStatus, error) {
	status := ListingStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// HasDiscount - скидка имеет смысл только для акционных статусов
func (s ListingStatus) HasDiscount() bool {
	return s == StatusPromotion || s == StatusUnmissable
}

// Listing - объявление об аренде
type Listing struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Price          float64       `json:"price"`
	PropertyTypeID int64         `json:"property_type_id"`
	Street         string        `json:"street"`
	Neighborhood   string        `json:"neighborhood"`
	City           string        `json:"city"`
	State          string        `json:"state"`
	PostalCode     string        `json:"postal_code,omitempty"`
	Latitude       float64       `json:"latitude"`
	Longitude      float64       `json:"longitude"`
	Geohash        string        `json:"geohash,omitempty"`
	Status         ListingStatus `json:"status"`
	Discount       int           `json:"discount"`
	PublishedAt    time.Time     `json:"published_at"`
	Slug           string        `json:"slug"`
	ImageURL       string        `json:"image_url,omitempty"`
	BedroomCount   int           `json:"bedroom_count"`
	BathroomCount  int           `json:"bathroom_count"`
	AreaM2         int           `json:"area_m2"`
	Typology       string        `json:"typology,omitempty"`
	Active         bool          `json:"active"`
	Views          int64         `json:"views"`
	AmenityIDs     []int64       `json:"amenity_ids,omitempty"`
}

// EffectiveDiscount возвращает скидку с учетом статуса
func (l Listing) EffectiveDiscount() int {
	if !l.Status.HasDiscount() {
		return 0
	}
	return l.Discount
}

// HasAnyAmenity - хотя бы одно из запрошенных удобств
func (l Listing) HasAnyAmenity(ids []int64) bool {
	for _, want := range ids {
		for _, have := range l.AmenityIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}

// NearbyListing - объявление с расстоянием до точки запроса
type NearbyListing struct {
	Listing    Listing `json:"listing"`
	DistanceKm float64 `json:"distance_km"`
}

// Amenity - характеристика объекта (бассейн, можно с животными и т.д.)
type Amenity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}

// ListingDetails - карточка объявления
type ListingDetails struct {
	Listing   Listing
	Amenities []Amenity
}
