package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type ProximitySearchUseCase interface {
	Execute(ctx context.Context, lat, lng, radiusKm float64) ([]domain.NearbyListing, error)
}

type StatusSearchUseCase interface {
	Execute(ctx context.Context, status domain.ListingStatus, limit int) ([]domain.Listing, error)
}

type AdvancedSearchUseCase interface {
	Execute(ctx context.Context, filter domain.SearchFilter) (*domain.PaginatedListings, error)
}

type TextSearchUseCase interface {
	Execute(ctx context.Context, query domain.TextQuery) (*domain.PaginatedListings, error)
}

type SuggestionsUseCase interface {
	Execute(ctx context.Context, term string) (*domain.Suggestions, error)
}

type AvailableFiltersUseCase interface {
	Execute(ctx context.Context) (*domain.FilterOptions, error)
}
