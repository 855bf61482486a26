package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type GetListingDetailsUseCase interface {
	Execute(ctx context.Context, id int64) (*domain.ListingDetails, error)
}

type RecentListingsUseCase interface {
	Execute(ctx context.Context, limit int) ([]domain.Listing, error)
}

type NeighborhoodListingsUseCase interface {
	Execute(ctx context.Context, city, neighborhood string) ([]domain.Listing, error)
}

type SimilarListingsUseCase interface {
	Execute(ctx context.Context, id int64) ([]domain.Listing, error)
}
