package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ListingDraft - данные для создания объявления
type ListingDraft struct {
	Title          string
	Description    string
	Price          float64
	PropertyTypeID int64
	Street         string
	Neighborhood   string
	City           string
	State          string
	PostalCode     string
	Latitude       float64
	Longitude      float64
	Status         ListingStatus
	Discount       int
	ImageURL       string
	BedroomCount   int
	BathroomCount  int
	AreaM2         int
	Typology       string
	AmenityIDs     []int64
}

// Validate проверяет обязательные поля черновика
func (d ListingDraft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidListing)
	}
	if d.Price < 0 || !isFinite(d.Price) {
		return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidListing)
	}
	if d.Neighborhood == "" || d.City == "" {
		return fmt.Errorf("%w: neighborhood and city are required", ErrInvalidListing)
	}
	if err := (ProximityFilter{Latitude: d.Latitude, Longitude: d.Longitude}).Validate(); err != nil {
		return fmt.Errorf("%w: invalid coordinates", ErrInvalidListing)
	}
	if d.Status != "" {
		if _, err := ParseListingStatus(string(d.Status)); err != nil {
			return err
		}
	}
	return ValidateDiscount(d.Discount)
}

// ValidateDiscount - процент скидки 0..100
func ValidateDiscount(discount int) error {
	if discount < 0 || discount > 100 {
		return ErrInvalidDiscount
	}
	return nil
}

// ListingPatch - частичное обновление, nil означает "не менять"
type ListingPatch struct {
	Title         *string
	Description   *string
	Price         *float64
	Street        *string
	Neighborhood  *string
	City          *string
	State         *string
	PostalCode    *string
	Latitude      *float64
	Longitude     *float64
	Status        *ListingStatus
	Discount      *int
	ImageURL      *string
	BedroomCount  *int
	BathroomCount *int
	AreaM2        *int
	Typology      *string
	AmenityIDs    []int64 // nil - не менять, пустой срез - очистить
}

// Apply применяет патч к копии объявления
func (p ListingPatch) Apply(l Listing) Listing {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}

	setString(&l.Title, p.Title)
	setString(&l.Description, p.Description)
	setFloat(&l.Price, p.Price)
	setString(&l.Street, p.Street)
	setString(&l.Neighborhood, p.Neighborhood)
	setString(&l.City, p.City)
	setString(&l.State, p.State)
	setString(&l.PostalCode, p.PostalCode)
	setFloat(&l.Latitude, p.Latitude)
	setFloat(&l.Longitude, p.Longitude)
	if p.Status != nil {
		l.Status = *p.Status
	}
	setInt(&l.Discount, p.Discount)
	setString(&l.ImageURL, p.ImageURL)
	setInt(&l.BedroomCount, p.BedroomCount)
	setInt(&l.BathroomCount, p.BathroomCount)
	setInt(&l.AreaM2, p.AreaM2)
	setString(&l.Typology, p.Typology)
	if p.AmenityIDs != nil {
		l.AmenityIDs = append([]int64(nil), p.AmenityIDs...)
	}
	return l
}

// Validate проверяет значения, которые патч собирается записать
func (p ListingPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidListing)
	}
	if p.Price != nil && (*p.Price < 0 || !isFinite(*p.Price)) {
		return fmt.Errorf("%w: price must be a non-negative number", ErrInvalidListing)
	}
	if p.Status != nil {
		if _, err := ParseListingStatus(string(*p.Status)); err != nil {
			return err
		}
	}
	if p.Discount != nil {
		if err := ValidateDiscount(*p.Discount); err != nil {
			return err
		}
	}
	if p.Latitude != nil && (!isFinite(*p.Latitude) || *p.Latitude < -90 || *p.Latitude > 90) {
		return fmt.Errorf("%w: invalid latitude", ErrInvalidListing)
	}
	if p.Longitude != nil && (!isFinite(*p.Longitude) || *p.Longitude < -180 || *p.Longitude > 180) {
		return fmt.Errorf("%w: invalid longitude", ErrInvalidListing)
	}
	return nil
}

// DashboardStats - сводка для админки
type DashboardStats struct {
	TotalListings  int                   `json:"total_listings"`
	ActiveListings int                   `json:"active_listings"`
	ByStatus       map[ListingStatus]int `json:"by_status"`
	TotalLeads     int                   `json:"total_leads"`
	NewLeads       int                   `json:"new_leads"`
	MostViewed     *Listing              `json:"most_viewed,omitempty"`
	TotalFavorites int                   `json:"total_favorites"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

// ChangeKind - тип изменения объявления для событий
type ChangeKind string

const (
	ChangeCreated   ChangeKind = "created"
	ChangeUpdated   ChangeKind = "updated"
	ChangeDeleted   ChangeKind = "deleted"
	ChangePromotion ChangeKind = "promotion"
)

// ListingChange - событие об изменении объявления
type ListingChange struct {
	EventID    uuid.UUID
	ListingID  int64
	Kind       ChangeKind
	OccurredAt time.Time
	Origin     string // id реплики, которая выполнила запись
}
