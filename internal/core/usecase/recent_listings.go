package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/cachekeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)

type RecentListingsUseCase struct {
	storage port.ListingReaderPort
	cache   *readThrough
}

func NewRecentListingsUseCase(storage port.ListingReaderPort, cache port.CachePort) *RecentListingsUseCase {
	return &RecentListingsUseCase{storage: storage, cache: newReadThrough(cache)}
}

func (uc *RecentListingsUseCase) Execute(ctx context.Context, limit int) ([]domain.Listing, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "RecentListings", "limit": limit})
	ucLogger.Info("Use case started", nil)

	listings, hit, err := cachedLoad(ctx, uc.cache, cachekeys.RecentKey(limit), cachekeys.RecentTTL, func(ctx context.Context) ([]domain.Listing, error) {
		return uc.storage.FindRecent(ctx, limit)
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
