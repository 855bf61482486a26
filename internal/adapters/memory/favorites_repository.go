package memory

import (
	"context"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

type FavoritesRepository struct {
	store *Store
}

func (r *FavoritesRepository) Add(_ context.Context, userID uuid.UUID, listingID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, e := range r.store.favorites[userID] {
		if e.listingID == listingID {
			return domain.ErrAlreadyFavorite
		}
	}
	r.store.favorites[userID] = append(r.store.favorites[userID], favoriteEntry{
		listingID: listingID,
		createdAt: r.store.now().UTC(),
	})
	return nil
}

func (r *FavoritesRepository) Remove(_ context.Context, userID uuid.UUID, listingID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := r.store.favorites[userID]
	for i, e := range entries {
		if e.listingID == listingID {
			r.store.favorites[userID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrFavoriteNotFound
}

// List - последние добавленные первыми. Снятые с публикации объявления приходят без Listing.
func (r *FavoritesRepository) List(_ context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.store.favorites[userID]
	result := make([]domain.Favorite, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fav := domain.Favorite{UserID: userID, ListingID: e.listingID, CreatedAt: e.createdAt}
		if idx := r.store.indexOf(e.listingID); idx >= 0 {
			l := cloneListing(r.store.listings[idx])
			fav.Listing = &l
		}
		result = append(result, fav)
	}
	return result, nil
}

func (r *FavoritesRepository) Exists(_ context.Context, userID uuid.UUID, listingID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.favorites[userID] {
		if e.listingID == listingID {
			return true, nil
		}
	}
	return false, nil
}
