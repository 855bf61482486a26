package port

import (
	"context"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

// ReviewRepositoryPort - отзывы, не больше одного на пользователя и объявление
type ReviewRepositoryPort interface {
	// Upsert создает отзыв или переписывает существующий. created=false при обновлении.
	Upsert(ctx context.Context, review domain.Review) (id int64, created bool, err error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	// ListByListing - новые первыми
	ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error)
	// ListByUser - новые первыми, с заголовком объявления
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Review, error)
	// RatingDistribution - количество отзывов на каждую оценку
	RatingDistribution(ctx context.Context, listingID int64) (map[int]int, error)
	Delete(ctx context.Context, id int64) error
}
