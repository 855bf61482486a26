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

const MaxSuggestionTermLength = 50

type SuggestionsUseCase struct {
	storage port.ListingReaderPort
}

func NewSuggestionsUseCase(storage port.ListingReaderPort) *SuggestionsUseCase {
	return &SuggestionsUseCase{storage: storage}
}

// Execute просматривает весь активный набор. Для больших каталогов понадобится индекс.
func (uc *SuggestionsUseCase) Execute(ctx context.Context, term string) (*domain.Suggestions, error) {
	term = strings.TrimSpace(term)

	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "Suggestions", "term": term})
	ucLogger.Debug("Use case started", nil)

	if n := utf8.RuneCountInString(term); n < 1 || n > MaxSuggestionTermLength {
		return nil, fmt.Errorf("%w: term must be 1..%d characters", domain.ErrInvalidFilter, MaxSuggestionTermLength)
	}

	listings, err := uc.storage.ListActive(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	suggestions := search.Suggest(listings, term)
	ucLogger.Debug("Use case finished successfully", port.Fields{"scanned": len(listings)})
	return &suggestions, nil
}
