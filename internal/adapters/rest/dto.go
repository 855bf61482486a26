package rest

import (
	"time"

	"listing-service/internal/core/domain"
)

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListingResponse - карточка объявления
type ListingResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Street        string    `json:"street"`
	Neighborhood  string    `json:"neighborhood"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postal_code,omitempty"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Status        string    `json:"status"`
	Discount      int       `json:"discount"`
	PublishedAt   time.Time `json:"published_at"`
	Slug          string    `json:"slug"`
	ImageURL      string    `json:"image_url,omitempty"`
	BedroomCount  int       `json:"bedroom_count"`
	BathroomCount int       `json:"bathroom_count"`
	AreaM2        int       `json:"area_m2"`
	Typology      string    `json:"typology,omitempty"`
	Views         int64     `json:"views"`
	AmenityIDs    []int64   `json:"amenity_ids"`
}

// NearbyListingResponse - результат поиска рядом
type NearbyListingResponse struct {
	ListingResponse
	DistanceKm float64 `json:"distance_km"`
}

// SearchHitResponse - строка результата расширенного и текстового поиска
type SearchHitResponse struct {
	ListingResponse
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type PaginatedListingsResponse struct {
	Data       []SearchHitResponse `json:"data"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}

type AmenityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}

type ListingDetailsResponse struct {
	ListingResponse
	Amenities []AmenityResponse `json:"amenities"`
}

type SuggestionsResponse struct {
	Neighborhoods []string `json:"neighborhoods"`
	Cities        []string `json:"cities"`
	Titles        []string `json:"titles"`
}

type FilterOptionsResponse struct {
	Neighborhoods     []string          `json:"neighborhoods"`
	Cities            []string          `json:"cities"`
	Statuses          []string          `json:"statuses"`
	PriceMin          float64           `json:"price_min"`
	PriceMax          float64           `json:"price_max"`
	PriceDistribution []int             `json:"price_distribution"`
	Bedrooms          []int             `json:"bedrooms"`
	Bathrooms         []int             `json:"bathrooms"`
	Amenities         []AmenityResponse `json:"amenities"`
}

type FavoriteResponse struct {
	ListingID int64            `json:"listing_id"`
	CreatedAt time.Time        `json:"created_at"`
	Listing   *ListingResponse `json:"listing,omitempty"`
}

type IsFavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// CreateLeadRequest - форма обратной связи
type CreateLeadRequest struct {
	ListingID *int64 `json:"listing_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

type LeadResponse struct {
	ID        int64     `json:"id"`
	ListingID *int64    `json:"listing_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaginatedLeadsResponse struct {
	Data       []LeadResponse `json:"data"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

// CreateListingRequest - тело POST /admin/listings
type CreateListingRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	PropertyTypeID int64   `json:"property_type_id"`
	Street         string  `json:"street"`
	Neighborhood   string  `json:"neighborhood"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	PostalCode     string  `json:"postal_code"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Status         string  `json:"status"`
	Discount       int     `json:"discount"`
	ImageURL       string  `json:"image_url"`
	BedroomCount   int     `json:"bedroom_count"`
	BathroomCount  int     `json:"bathroom_count"`
	AreaM2         int     `json:"area_m2"`
	Typology       string  `json:"typology"`
	AmenityIDs     []int64 `json:"amenity_ids"`
}

// UpdateListingRequest - частичное обновление, отсутствующее поле не меняется
type UpdateListingRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Street        *string  `json:"street"`
	Neighborhood  *string  `json:"neighborhood"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	PostalCode    *string  `json:"postal_code"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Status        *string  `json:"status"`
	Discount      *int     `json:"discount"`
	ImageURL      *string  `json:"image_url"`
	BedroomCount  *int     `json:"bedroom_count"`
	BathroomCount *int     `json:"bathroom_count"`
	AreaM2        *int     `json:"area_m2"`
	Typology      *string  `json:"typology"`
	AmenityIDs    []int64  `json:"amenity_ids"`
}

type PromotionRequest struct {
	Status   string `json:"status"`
	Discount int    `json:"discount"`
}

type DashboardStatsResponse struct {
	TotalListings  int              `json:"total_listings"`
	ActiveListings int              `json:"active_listings"`
	ByStatus       map[string]int   `json:"by_status"`
	TotalLeads     int              `json:"total_leads"`
	NewLeads       int              `json:"new_leads"`
	TotalFavorites int              `json:"total_favorites"`
	MostViewed     *ListingResponse `json:"most_viewed,omitempty"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// --- отчеты ---

type ViewedListingResponse struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Views  int64   `json:"views"`
	Price  float64 `json:"price"`
	Status string  `json:"status"`
}

type ViewsReportResponse struct {
	TopListings  []ViewedListingResponse `json:"top_listings"`
	TotalViews   int64                   `json:"total_views"`
	AverageViews int64                   `json:"average_views"`
}

type LeadReportResponse struct {
	TotalLeads      int            `json:"total_leads"`
	ByStatus        map[string]int `json:"by_status"`
	ConversionRate  int            `json:"conversion_rate"`
	LeadsPerListing map[int64]int  `json:"leads_per_listing"`
}

type NeighborhoodPerformanceResponse struct {
	City         string         `json:"city"`
	Neighborhood string         `json:"neighborhood"`
	Total        int            `json:"total"`
	Views        int64          `json:"views"`
	AverageRent  float64        `json:"average_rent"`
	ByStatus     map[string]int `json:"by_status"`
}

type NeighborhoodReportResponse struct {
	Neighborhoods      []NeighborhoodPerformanceResponse `json:"neighborhoods"`
	TotalNeighborhoods int                               `json:"total_neighborhoods"`
}

type RevenueReportResponse struct {
	TotalRent     float64 `json:"total_rent"`
	AvailableRent float64 `json:"available_rent"`
	RentedRent    float64 `json:"rented_rent"`
	OccupancyRate int     `json:"occupancy_rate"`
	Rented        int     `json:"rented"`
	NotRented     int     `json:"not_rented"`
}

// --- отзывы ---

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

// ReviewResponse - публичный отзыв, без id автора
type ReviewResponse struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserReviewResponse struct {
	ReviewResponse
	ListingTitle string `json:"listing_title"`
}

type ReviewStatsResponse struct {
	Total        int         `json:"total"`
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}

// --- маппинг домен -> DTO ---

func toListingResponse(l domain.Listing) ListingResponse {
	amenityIDs := l.AmenityIDs
	if amenityIDs == nil {
		amenityIDs = []int64{}
	}
	return ListingResponse{
		ID:            l.ID,
		Title:         l.Title,
		Description:   l.Description,
		Price:         l.Price,
		Street:        l.Street,
		Neighborhood:  l.Neighborhood,
		City:          l.City,
		State:         l.State,
		PostalCode:    l.PostalCode,
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		Status:        string(l.Status),
		Discount:      l.EffectiveDiscount(),
		PublishedAt:   l.PublishedAt,
		Slug:          l.Slug,
		ImageURL:      l.ImageURL,
		BedroomCount:  l.BedroomCount,
		BathroomCount: l.BathroomCount,
		AreaM2:        l.AreaM2,
		Typology:      l.Typology,
		Views:         l.Views,
		AmenityIDs:    amenityIDs,
	}
}

func toListingResponses(listings []domain.Listing) []ListingResponse {
	response := make([]ListingResponse, len(listings))
	for i, l := range listings {
		response[i] = toListingResponse(l)
	}
	return response
}

func toNearbyResponses(nearby []domain.NearbyListing) []NearbyListingResponse {
	response := make([]NearbyListingResponse, len(nearby))
	for i, n := range nearby {
		response[i] = NearbyListingResponse{
			ListingResponse: toListingResponse(n.Listing),
			DistanceKm:      n.DistanceKm,
		}
	}
	return response
}

func toPaginatedListingsResponse(page *domain.PaginatedListings) PaginatedListingsResponse {
	response := PaginatedListingsResponse{
		Data:       make([]SearchHitResponse, len(page.Results)),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
	for i, hit := range page.Results {
		response.Data[i] = SearchHitResponse{
			ListingResponse: toListingResponse(hit.Listing),
			DistanceKm:      hit.DistanceKm,
		}
	}
	return response
}

func toAmenityResponses(amenities []domain.Amenity) []AmenityResponse {
	response := make([]AmenityResponse, len(amenities))
	for i, a := range amenities {
		response[i] = AmenityResponse{ID: a.ID, Name: a.Name, Slug: a.Slug, Icon: a.Icon}
	}
	return response
}

func toListingDetailsResponse(details *domain.ListingDetails) ListingDetailsResponse {
	return ListingDetailsResponse{
		ListingResponse: toListingResponse(details.Listing),
		Amenities:       toAmenityResponses(details.Amenities),
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}

func toSuggestionsResponse(s *domain.Suggestions) SuggestionsResponse {
	return SuggestionsResponse{
		Neighborhoods: nonNilStrings(s.Neighborhoods),
		Cities:        nonNilStrings(s.Cities),
		Titles:        nonNilStrings(s.Titles),
	}
}

func toFilterOptionsResponse(o *domain.FilterOptions) FilterOptionsResponse {
	statuses := make([]string, len(o.Statuses))
	for i, s := range o.Statuses {
		statuses[i] = string(s)
	}
	return FilterOptionsResponse{
		Neighborhoods:     nonNilStrings(o.Neighborhoods),
		Cities:            nonNilStrings(o.Cities),
		Statuses:          statuses,
		PriceMin:          o.PriceMin,
		PriceMax:          o.PriceMax,
		PriceDistribution: nonNilInts(o.PriceDistribution),
		Bedrooms:          nonNilInts(o.Bedrooms),
		Bathrooms:         nonNilInts(o.Bathrooms),
		Amenities:         toAmenityResponses(o.Amenities),
	}
}

func toFavoriteResponses(favorites []domain.Favorite) []FavoriteResponse {
	response := make([]FavoriteResponse, len(favorites))
	for i, f := range favorites {
		item := FavoriteResponse{ListingID: f.ListingID, CreatedAt: f.CreatedAt}
		if f.Listing != nil {
			card := toListingResponse(*f.Listing)
			item.Listing = &card
		}
		response[i] = item
	}
	return response
}

func toLeadResponse(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:        l.ID,
		ListingID: l.ListingID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Message:   l.Message,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toPaginatedLeadsResponse(page *domain.PaginatedLeads) PaginatedLeadsResponse {
	response := PaginatedLeadsResponse{
		Data:       make([]LeadResponse, len(page.Leads)),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
	for i, l := range page.Leads {
		response.Data[i] = toLeadResponse(l)
	}
	return response
}

func toDashboardStatsResponse(s *domain.DashboardStats) DashboardStatsResponse {
	response := DashboardStatsResponse{
		TotalListings:  s.TotalListings,
		ActiveListings: s.ActiveListings,
		ByStatus:       statusCounts(s.ByStatus),
		TotalLeads:     s.TotalLeads,
		NewLeads:       s.NewLeads,
		TotalFavorites: s.TotalFavorites,
		GeneratedAt:    s.GeneratedAt,
	}
	if s.MostViewed != nil {
		card := toListingResponse(*s.MostViewed)
		response.MostViewed = &card
	}
	return response
}

func statusCounts(counts map[domain.ListingStatus]int) map[string]int {
	result := make(map[string]int, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		result[string(status)] = counts[status]
	}
	return result
}

func toViewsReportResponse(report *domain.ViewsReport) ViewsReportResponse {
	response := ViewsReportResponse{
		TopListings:  make([]ViewedListingResponse, len(report.TopListings)),
		TotalViews:   report.TotalViews,
		AverageViews: report.AverageViews,
	}
	for i, l := range report.TopListings {
		response.TopListings[i] = ViewedListingResponse{
			ID:     l.ID,
			Title:  l.Title,
			Views:  l.Views,
			Price:  l.Price,
			Status: string(l.Status),
		}
	}
	return response
}

func toLeadReportResponse(report *domain.LeadConversionReport) LeadReportResponse {
	byStatus := make(map[string]int, len(domain.AllLeadStatuses))
	for _, status := range domain.AllLeadStatuses {
		byStatus[string(status)] = report.ByStatus[status]
	}
	return LeadReportResponse{
		TotalLeads:      report.TotalLeads,
		ByStatus:        byStatus,
		ConversionRate:  report.ConversionRate,
		LeadsPerListing: report.LeadsPerListing,
	}
}

func toNeighborhoodReportResponse(report *domain.NeighborhoodReport) NeighborhoodReportResponse {
	response := NeighborhoodReportResponse{
		Neighborhoods:      make([]NeighborhoodPerformanceResponse, len(report.Neighborhoods)),
		TotalNeighborhoods: report.TotalNeighborhoods,
	}
	for i, n := range report.Neighborhoods {
		response.Neighborhoods[i] = NeighborhoodPerformanceResponse{
			City:         n.City,
			Neighborhood: n.Neighborhood,
			Total:        n.Total,
			Views:        n.Views,
			AverageRent:  n.AverageRent,
			ByStatus:     statusCounts(n.ByStatus),
		}
	}
	return response
}

func toReviewResponse(r domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ListingID: r.ListingID,
		Rating:    r.Rating,
		Title:     r.Title,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toReviewStatsResponse(stats *domain.ReviewStats) ReviewStatsResponse {
	return ReviewStatsResponse{
		Total:        stats.Total,
		Average:      stats.Average,
		Distribution: stats.Distribution,
	}
}

// --- DTO -> домен ---

func (req CreateListingRequest) toDraft() domain.ListingDraft {
	return domain.ListingDraft{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		PropertyTypeID: req.PropertyTypeID,
		Street:         req.Street,
		Neighborhood:   req.Neighborhood,
		City:           req.City,
		State:          req.State,
		PostalCode:     req.PostalCode,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Status:         domain.ListingStatus(req.Status),
		Discount:       req.Discount,
		ImageURL:       req.ImageURL,
		BedroomCount:   req.BedroomCount,
		BathroomCount:  req.BathroomCount,
		AreaM2:         req.AreaM2,
		Typology:       req.Typology,
		AmenityIDs:     req.AmenityIDs,
	}
}

func (req UpdateListingRequest) toPatch() domain.ListingPatch {
	patch := domain.ListingPatch{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Street:        req.Street,
		Neighborhood:  req.Neighborhood,
		City:          req.City,
		State:         req.State,
		PostalCode:    req.PostalCode,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Discount:      req.Discount,
		ImageURL:      req.ImageURL,
		BedroomCount:  req.BedroomCount,
		BathroomCount: req.BathroomCount,
		AreaM2:        req.AreaM2,
		Typology:      req.Typology,
		AmenityIDs:    req.AmenityIDs,
	}
	if req.Status != nil {
		status := domain.ListingStatus(*req.Status)
		patch.Status = &status
	}
	return patch
}
