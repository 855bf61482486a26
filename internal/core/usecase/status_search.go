package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/cachekeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

const (
	DefaultStatusLimit = 10
	// MaxStatusLimit - сколько объявлений по статусу хранится в одной записи кеша
	MaxStatusLimit = 100
)

type StatusSearchUseCase struct {
	storage port.ListingReaderPort
	cache   *readThrough
}

func NewStatusSearchUseCase(storage port.ListingReaderPort, cache port.CachePort) *StatusSearchUseCase {
	return &StatusSearchUseCase{storage: storage, cache: newReadThrough(cache)}
}

// Execute возвращает объявления со статусом, от новых к старым.
// В кеше лежит первая сотня, ответ обрезается до limit.
func (uc *StatusSearchUseCase) Execute(ctx context.Context, status domain.ListingStatus, limit int) ([]domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "StatusSearch",
		"status":   status,
		"limit":    limit,
	})
	ucLogger.Info("Use case started", nil)

	if _, err := domain.ParseListingStatus(string(status)); err != nil {
		ucLogger.Warn("Invalid status", port.Fields{"error": err.Error()})
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultStatusLimit
	}
	if limit > MaxStatusLimit {
		limit = MaxStatusLimit
	}

	listings, hit, err := cachedLoad(ctx, uc.cache, cachekeys.StatusKey(status), cachekeys.StatusTTL, func(ctx context.Context) ([]domain.Listing, error) {
		return uc.storage.FindByStatus(ctx, status, MaxStatusLimit)
	})
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	if len(listings) > limit {
		listings = listings[:limit]
	}
	if listings == nil {
		listings = []domain.Listing{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"found": len(listings), "cache_hit": hit})
	return listings, nil
}
