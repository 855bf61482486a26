package memory

import (
	"context"
	"fmt"
	"sort"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

type ReviewRepository struct {
	store *Store
}

func (r *ReviewRepository) Upsert(_ context.Context, review domain.Review) (int64, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now().UTC()
	for i := range r.store.reviews {
		existing := &r.store.reviews[i]
		if existing.ListingID == review.ListingID && existing.UserID == review.UserID {
			existing.Rating = review.Rating
			existing.Title = review.Title
			existing.Comment = review.Comment
			existing.UpdatedAt = now
			return existing.ID, false, nil
		}
	}

	r.store.nextReviewID++
	review.ID = r.store.nextReviewID
	review.ListingTitle = ""
	review.CreatedAt = now
	review.UpdatedAt = now
	r.store.reviews = append(r.store.reviews, review)
	return review.ID, true, nil
}

func (r *ReviewRepository) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, review := range r.store.reviews {
		if review.ID == id {
			return &review, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", domain.ErrReviewNotFound, id)
}

func (r *ReviewRepository) ListByListing(_ context.Context, listingID int64) ([]domain.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []domain.Review
	for _, review := range r.store.reviews {
		if review.ListingID == listingID {
			result = append(result, review)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

// ListByUser подставляет заголовок объявления, если оно еще опубликовано
func (r *ReviewRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []domain.Review
	for _, review := range r.store.reviews {
		if review.UserID != userID {
			continue
		}
		if idx := r.store.indexOf(review.ListingID); idx >= 0 {
			review.ListingTitle = r.store.listings[idx].Title
		}
		result = append(result, review)
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *ReviewRepository) RatingDistribution(_ context.Context, listingID int64) (map[int]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[int]int, domain.MaxRating)
	for _, review := range r.store.reviews {
		if review.ListingID == listingID {
			counts[review.Rating]++
		}
	}
	return counts, nil
}

func (r *ReviewRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.reviews {
		if r.store.reviews[i].ID == id {
			r.store.reviews = append(r.store.reviews[:i], r.store.reviews[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", domain.ErrReviewNotFound, id)
}

// sortNewestFirst - по дате создания, при равенстве больший id первым
func sortNewestFirst(reviews []domain.Review) {
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return reviews[i].ID > reviews[j].ID
	})
}
