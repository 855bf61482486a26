package usecase

import (
	"context"
	"fmt"
	"strings"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
)

type UpsertReviewUseCase struct {
	listings port.ListingReaderPort
	reviews  port.ReviewRepositoryPort
}

func NewUpsertReviewUseCase(listings port.ListingReaderPort, reviews port.ReviewRepositoryPort) *UpsertReviewUseCase {
	return &UpsertReviewUseCase{listings: listings, reviews: reviews}
}

func (uc *UpsertReviewUseCase) Execute(ctx context.Context, review domain.Review) (*domain.Review, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "UpsertReview",
		"user_id":    review.UserID,
		"listing_id": review.ListingID,
	})
	ucLogger.Info("Use case started", nil)

	review.Title = strings.TrimSpace(review.Title)
	review.Comment = strings.TrimSpace(review.Comment)
	if err := review.Validate(); err != nil {
		ucLogger.Warn("Review rejected", port.Fields{"error": err.Error()})
		return nil, false, err
	}

	if _, err := uc.listings.GetByID(ctx, review.ListingID); err != nil {
		ucLogger.Warn("Listing is not available", port.Fields{"error": err.Error()})
		return nil, false, err
	}

	id, created, err := uc.reviews.Upsert(ctx, review)
	if err != nil {
		ucLogger.Error("Failed to save review", err, nil)
		return nil, false, err
	}

	saved, err := uc.reviews.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Failed to read saved review", err, port.Fields{"review_id": id})
		return nil, false, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"review_id": id, "created": created})
	return saved, created, nil
}

type ListListingReviewsUseCase struct {
	reviews port.ReviewRepositoryPort
}

func NewListListingReviewsUseCase(reviews port.ReviewRepositoryPort) *ListListingReviewsUseCase {
	return &ListListingReviewsUseCase{reviews: reviews}
}

func (uc *ListListingReviewsUseCase) Execute(ctx context.Context, listingID int64) ([]domain.Review, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "ListListingReviews", "listing_id": listingID})

	reviews, err := uc.reviews.ListByListing(ctx, listingID)
	if err != nil {
		ucLogger.Error("Failed to list reviews", err, nil)
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

type ReviewStatsUseCase struct {
	reviews port.ReviewRepositoryPort
}

func NewReviewStatsUseCase(reviews port.ReviewRepositoryPort) *ReviewStatsUseCase {
	return &ReviewStatsUseCase{reviews: reviews}
}

func (uc *ReviewStatsUseCase) Execute(ctx context.Context, listingID int64) (*domain.ReviewStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "ReviewStats", "listing_id": listingID})

	counts, err := uc.reviews.RatingDistribution(ctx, listingID)
	if err != nil {
		ucLogger.Error("Failed to read rating distribution", err, nil)
		return nil, err
	}

	stats := domain.NewReviewStats(counts)
	return &stats, nil
}

type GetUserReviewsUseCase struct {
	reviews port.ReviewRepositoryPort
}

func NewGetUserReviewsUseCase(reviews port.ReviewRepositoryPort) *GetUserReviewsUseCase {
	return &GetUserReviewsUseCase{reviews: reviews}
}

func (uc *GetUserReviewsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]domain.Review, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetUserReviews", "user_id": userID})
	ucLogger.Info("Use case started", nil)

	reviews, err := uc.reviews.ListByUser(ctx, userID)
	if err != nil {
		ucLogger.Error("Failed to list user reviews", err, nil)
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"found": len(reviews)})
	return reviews, nil
}

type DeleteReviewUseCase struct {
	reviews port.ReviewRepositoryPort
}

func NewDeleteReviewUseCase(reviews port.ReviewRepositoryPort) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{reviews: reviews}
}

func (uc *DeleteReviewUseCase) Execute(ctx context.Context, userID uuid.UUID, isAdmin bool, reviewID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "DeleteReview",
		"user_id":   userID,
		"review_id": reviewID,
		"is_admin":  isAdmin,
	})
	ucLogger.Info("Use case started", nil)

	review, err := uc.reviews.GetByID(ctx, reviewID)
	if err != nil {
		ucLogger.Warn("Review lookup failed", port.Fields{"error": err.Error()})
		return err
	}
	if review.UserID != userID && !isAdmin {
		ucLogger.Warn("User is not the author of the review", port.Fields{"author_id": review.UserID})
		return fmt.Errorf("%w: review %d belongs to another user", domain.ErrForbidden, reviewID)
	}

	if err := uc.reviews.Delete(ctx, reviewID); err != nil {
		ucLogger.Error("Failed to delete review", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
