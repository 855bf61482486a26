package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/search"
)

type AvailableFiltersUseCase struct {
	storage port.ListingReaderPort
}

func NewAvailableFiltersUseCase(storage port.ListingReaderPort) *AvailableFiltersUseCase {
	return &AvailableFiltersUseCase{storage: storage}
}

// Execute собирает значения для панели фильтров.
// Без списка удобств панель все равно работает, поэтому его ошибка не критична.
func (uc *AvailableFiltersUseCase) Execute(ctx context.Context) (*domain.FilterOptions, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "AvailableFilters"})
	ucLogger.Info("Use case started", nil)

	listings, err := uc.storage.ListActive(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	amenities, err := uc.storage.ListAmenities(ctx)
	if err != nil {
		ucLogger.Error("WARN: Failed to load amenities", err, nil)
		amenities = []domain.Amenity{}
	}

	options := search.BuildFilterOptions(listings, amenities)
	ucLogger.Info("Use case finished successfully", port.Fields{
		"neighborhoods": len(options.Neighborhoods),
		"cities":        len(options.Cities),
	})
	return &options, nil
}
