package port

import (
	"context"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

// FavoritesRepositoryPort - избранное пользователей
type FavoritesRepositoryPort interface {
	// Add возвращает domain.ErrAlreadyFavorite для повторного добавления
	Add(ctx context.Context, userID uuid.UUID, listingID int64) error
	Remove(ctx context.Context, userID uuid.UUID, listingID int64) error
	// List - от последних добавленных к первым, вместе с объявлениями
	List(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error)
	Exists(ctx context.Context, userID uuid.UUID, listingID int64) (bool, error)
}
