package usecase

import (
	"context"
	"fmt"
	"strings"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/cachekeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type NeighborhoodListingsUseCase struct {
	storage port.ListingReaderPort
	cache   *readThrough
}

func NewNeighborhoodListingsUseCase(storage port.ListingReaderPort, cache port.CachePort) *NeighborhoodListingsUseCase {
	return &NeighborhoodListingsUseCase{storage: storage, cache: newReadThrough(cache)}
}

func (uc *NeighborhoodListingsUseCase) Execute(ctx context.Context, city, neighborhood string) ([]domain.Listing, error) {
	city = strings.TrimSpace(city)
	neighborhood = strings.TrimSpace(neighborhood)

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "NeighborhoodListings",
		"city":         city,
		"neighborhood": neighborhood,
	})
	ucLogger.Info("Use case started", nil)

	if city == "" || neighborhood == "" {
		return nil, fmt.Errorf("%w: city and neighborhood are required", domain.ErrInvalidFilter)
	}

	key := cachekeys.NeighborhoodKey(city, neighborhood)
	listings, hit, err := cachedLoad(ctx, uc.cache, key, cachekeys.NeighborhoodTTL, func(ctx context.Context) ([]domain.Listing, error) {
		return uc.storage.FindByNeighborhood(ctx, city, neighborhood)
	})
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"found": len(listings), "cache_hit": hit})
	return listings, nil
}
