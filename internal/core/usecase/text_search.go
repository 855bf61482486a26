package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/search"
)

const MaxTextTermLength = 100

type TextSearchUseCase struct {
	storage port.ListingReaderPort
}

func NewTextSearchUseCase(storage port.ListingReaderPort) *TextSearchUseCase {
	return &TextSearchUseCase{storage: storage}
}

func (uc *TextSearchUseCase) Execute(ctx context.Context, query domain.TextQuery) (*domain.PaginatedListings, error) {
	query.Term = strings.TrimSpace(query.Term)
	if query.Page == 0 {
		query.Page = domain.DefaultPage
	}
	if query.PageSize == 0 {
		query.PageSize = domain.DefaultPageSize
	}

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "TextSearch",
		"term":     query.Term,
	})
	ucLogger.Info("Use case started", nil)

	if n := utf8.RuneCountInString(query.Term); n < 1 || n > MaxTextTermLength {
		return nil, fmt.Errorf("%w: term must be 1..%d characters", domain.ErrInvalidFilter, MaxTextTermLength)
	}
	if query.Page < 1 || query.PageSize < 1 || query.PageSize > domain.MaxPageSize {
		return nil, fmt.Errorf("%w: invalid pagination", domain.ErrInvalidFilter)
	}

	hits, err := uc.storage.SearchText(ctx, query.Term)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	page := search.Paginate(hits, query.Page, query.PageSize)
	ucLogger.Info("Use case finished successfully", port.Fields{"total_found": page.Total})
	return &page, nil
}
