package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/cachekeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"
	"listing-service/internal/core/port"
)

type ProximitySearchUseCase struct {
	storage port.ListingReaderPort
	cache   *readThrough
}

func NewProximitySearchUseCase(storage port.ListingReaderPort, cache port.CachePort) *ProximitySearchUseCase {
	return &ProximitySearchUseCase{storage: storage, cache: newReadThrough(cache)}
}

// Execute ищет активные объявления в радиусе. Ошибка хранилища не поднимается наверх:
// она логируется, а клиент получает пустой список. Некорректная точка или радиус - ErrInvalidFilter.
func (uc *ProximitySearchUseCase) Execute(ctx context.Context, lat, lng, radiusKm float64) ([]domain.NearbyListing, error) {
	if err := (domain.ProximityFilter{Latitude: lat, Longitude: lng, RadiusKm: radiusKm}).Validate(); err != nil {
		return nil, err
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "ProximitySearch",
		"latitude":  lat,
		"longitude": lng,
		"radius_km": radiusKm,
	})
	ucLogger.Info("Use case started", nil)

	key := cachekeys.GeoKey(lat, lng, radiusKm)
	result, hit, err := cachedLoad(ctx, uc.cache, key, cachekeys.GeoTTL, func(ctx context.Context) ([]domain.NearbyListing, error) {
		return uc.storage.FindNearby(ctx, lat, lng, radiusKm, geo.MaxNearbyResults)
	})
	if err != nil {
		ucLogger.Error("Storage returned an error, responding with empty result", err, nil)
		return []domain.NearbyListing{}, nil
	}
	if result == nil {
		result = []domain.NearbyListing{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"found": len(result), "cache_hit": hit})
	return result, nil
}
