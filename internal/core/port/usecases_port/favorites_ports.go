package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

type AddToFavoritesUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID, listingID int64) error
}

type RemoveFromFavoritesUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID, listingID int64) error
}

type GetUserFavoritesUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error)
}

type IsFavoriteUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID, listingID int64) (bool, error)
}
