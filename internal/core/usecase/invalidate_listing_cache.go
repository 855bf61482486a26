package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/cachekeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// InvalidateListingCacheUseCase сбрасывает кеш по событию от другой реплики
type InvalidateListingCacheUseCase struct {
	cache  port.CachePort
	origin string
}

func NewInvalidateListingCacheUseCase(cache port.CachePort, origin string) *InvalidateListingCacheUseCase {
	return &InvalidateListingCacheUseCase{cache: cache, origin: origin}
}

func (uc *InvalidateListingCacheUseCase) Execute(ctx context.Context, change domain.ListingChange) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "InvalidateListingCache",
		"event_id":    change.EventID,
		"listing_id":  change.ListingID,
		"change_kind": change.Kind,
		"origin":      change.Origin,
	})

	// свои события уже обработаны в момент записи
	if change.Origin != "" && change.Origin == uc.origin {
		ucLogger.Debug("Skipping own listing change", nil)
		return nil
	}

	invalidateListingCaches(ctx, uc.cache, cachekeys.ListingInvalidationPatterns())
	ucLogger.Info("Listing caches invalidated by remote change", nil)
	return nil
}
