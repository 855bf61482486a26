package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
)

type AddToFavoritesUseCase struct {
	listings  port.ListingReaderPort
	favorites port.FavoritesRepositoryPort
}

func NewAddToFavoritesUseCase(listings port.ListingReaderPort, favorites port.FavoritesRepositoryPort) *AddToFavoritesUseCase {
	return &AddToFavoritesUseCase{listings: listings, favorites: favorites}
}

func (uc *AddToFavoritesUseCase) Execute(ctx context.Context, userID uuid.UUID, listingID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "AddToFavorites",
		"user_id":    userID,
		"listing_id": listingID,
	})
	ucLogger.Info("Use case started", nil)

	if _, err := uc.listings.GetByID(ctx, listingID); err != nil {
		ucLogger.Warn("Listing is not available", port.Fields{"error": err.Error()})
		return err
	}

	if err := uc.favorites.Add(ctx, userID, listingID); err != nil {
		ucLogger.Error("Failed to add favorite", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

type RemoveFromFavoritesUseCase struct {
	favorites port.FavoritesRepositoryPort
}

func NewRemoveFromFavoritesUseCase(favorites port.FavoritesRepositoryPort) *RemoveFromFavoritesUseCase {
	return &RemoveFromFavoritesUseCase{favorites: favorites}
}

func (uc *RemoveFromFavoritesUseCase) Execute(ctx context.Context, userID uuid.UUID, listingID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "RemoveFromFavorites",
		"user_id":    userID,
		"listing_id": listingID,
	})
	ucLogger.Info("Use case started", nil)

	if err := uc.favorites.Remove(ctx, userID, listingID); err != nil {
		ucLogger.Error("Failed to remove favorite", err, nil)
		return err
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

type GetUserFavoritesUseCase struct {
	favorites port.FavoritesRepositoryPort
}

func NewGetUserFavoritesUseCase(favorites port.FavoritesRepositoryPort) *GetUserFavoritesUseCase {
	return &GetUserFavoritesUseCase{favorites: favorites}
}

func (uc *GetUserFavoritesUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetUserFavorites", "user_id": userID})
	ucLogger.Info("Use case started", nil)

	favorites, err := uc.favorites.List(ctx, userID)
	if err != nil {
		ucLogger.Error("Failed to list favorites", err, nil)
		return nil, err
	}
	if favorites == nil {
		favorites = []domain.Favorite{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"found": len(favorites)})
	return favorites, nil
}

type IsFavoriteUseCase struct {
	favorites port.FavoritesRepositoryPort
}

func NewIsFavoriteUseCase(favorites port.FavoritesRepositoryPort) *IsFavoriteUseCase {
	return &IsFavoriteUseCase{favorites: favorites}
}

func (uc *IsFavoriteUseCase) Execute(ctx context.Context, userID uuid.UUID, listingID int64) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "IsFavorite",
		"user_id":    userID,
		"listing_id": listingID,
	})

	exists, err := uc.favorites.Exists(ctx, userID, listingID)
	if err != nil {
		ucLogger.Error("Failed to check favorite", err, nil)
		return false, err
	}
	return exists, nil
}
