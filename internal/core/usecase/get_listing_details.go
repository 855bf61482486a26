package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type GetListingDetailsUseCase struct {
	reader port.ListingReaderPort
	writer port.ListingWriterPort
}

func NewGetListingDetailsUseCase(reader port.ListingReaderPort, writer port.ListingWriterPort) *GetListingDetailsUseCase {
	return &GetListingDetailsUseCase{reader: reader, writer: writer}
}

// Execute отдает карточку и увеличивает счетчик просмотров.
// Неудачный инкремент не мешает отдать карточку.
func (uc *GetListingDetailsUseCase) Execute(ctx context.Context, id int64) (*domain.ListingDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetListingDetails",
		"listing_id": id,
	})
	ucLogger.Info("Use case started", nil)

	details, err := uc.reader.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	if err := uc.writer.IncrementViews(ctx, id); err != nil {
		ucLogger.Error("Failed to increment views", err, nil)
	} else {
		details.Listing.Views++
	}

	ucLogger.Info("Use case finished successfully", nil)
	return details, nil
}
