package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type CreateListingUseCase interface {
	Execute(ctx context.Context, draft domain.ListingDraft) (*domain.Listing, error)
}

type UpdateListingUseCase interface {
	Execute(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error)
}

type DeleteListingUseCase interface {
	Execute(ctx context.Context, id int64) error
}

type ConfigurePromotionUseCase interface {
	Execute(ctx context.Context, id int64, status domain.ListingStatus, discount int) error
}

type DashboardStatsUseCase interface {
	Execute(ctx context.Context) (*domain.DashboardStats, error)
}

// InvalidateListingCacheUseCase вызывается слушателем событий других реплик
type InvalidateListingCacheUseCase interface {
	Execute(ctx context.Context, change domain.ListingChange) error
}
