package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

// DeleteListingUseCase снимает объявление с публикации, строка в хранилище остается
type DeleteListingUseCase struct {
	storage  port.ListingWriterPort
	notifier *ListingChangeNotifier
}

func NewDeleteListingUseCase(storage port.ListingWriterPort, notifier *ListingChangeNotifier) *DeleteListingUseCase {
	return &DeleteListingUseCase{storage: storage, notifier: notifier}
}

func (uc *DeleteListingUseCase) Execute(ctx context.Context, id int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "DeleteListing", "listing_id": id})
	ucLogger.Info("Use case started", nil)

	if err := uc.storage.Deactivate(ctx, id); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}

	uc.notifier.Notify(ctx, id, domain.ChangeDeleted)

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
