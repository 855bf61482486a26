package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

type UpsertReviewUseCase interface {
	// Execute возвращает сохраненный отзыв и признак создания нового
	Execute(ctx context.Context, review domain.Review) (*domain.Review, bool, error)
}

type ListListingReviewsUseCase interface {
	Execute(ctx context.Context, listingID int64) ([]domain.Review, error)
}

type ReviewStatsUseCase interface {
	Execute(ctx context.Context, listingID int64) (*domain.ReviewStats, error)
}

type GetUserReviewsUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID) ([]domain.Review, error)
}

type DeleteReviewUseCase interface {
	// Execute удаляет отзыв автора. Администратор может удалить любой.
	Execute(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID int64) error
}
