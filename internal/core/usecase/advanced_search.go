package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/search"
)

type AdvancedSearchUseCase struct {
	storage port.ListingReaderPort
}

func NewAdvancedSearchUseCase(storage port.ListingReaderPort) *AdvancedSearchUseCase {
	return &AdvancedSearchUseCase{storage: storage}
}

// Execute фильтрует объявления и отдает запрошенную страницу.
// Total и страница считаются по одному и тому же набору из хранилища.
func (uc *AdvancedSearchUseCase) Execute(ctx context.Context, filter domain.SearchFilter) (*domain.PaginatedListings, error) {
	filter = filter.Normalize()

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "AdvancedSearch",
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
	ucLogger.Info("Use case started", nil)

	if err := filter.Validate(); err != nil {
		ucLogger.Warn("Invalid filter", port.Fields{"error": err.Error()})
		return nil, err
	}

	hits, err := uc.storage.Search(ctx, filter)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	page := search.Paginate(hits, filter.Page, filter.PageSize)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   page.Total,
		"items_on_page": len(page.Results),
	})
	return &page, nil
}
