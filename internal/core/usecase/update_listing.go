package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"
	"listing-service/internal/core/port"
)

type UpdateListingUseCase struct {
	storage  port.ListingStoragePort
	notifier *ListingChangeNotifier
}

func NewUpdateListingUseCase(storage port.ListingStoragePort, notifier *ListingChangeNotifier) *UpdateListingUseCase {
	return &UpdateListingUseCase{storage: storage, notifier: notifier}
}

// Execute применяет частичное обновление. Слаг и дата публикации не меняются.
func (uc *UpdateListingUseCase) Execute(ctx context.Context, id int64, patch domain.ListingPatch) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "UpdateListing", "listing_id": id})
	ucLogger.Info("Use case started", nil)

	if err := patch.Validate(); err != nil {
		ucLogger.Warn("Invalid listing patch", port.Fields{"error": err.Error()})
		return nil, err
	}
	if patch.Status != nil {
		status, _ := domain.ParseListingStatus(string(*patch.Status))
		patch.Status = &status
	}

	current, err := uc.storage.GetByID(ctx, id)
	if err != nil {
		ucLogger.Error("Failed to load listing", err, nil)
		return nil, err
	}

	updated := patch.Apply(current.Listing)
	if patch.Latitude != nil || patch.Longitude != nil {
		updated.Geohash = geo.StoredCell(updated.Latitude, updated.Longitude)
	}
	if !updated.Status.HasDiscount() {
		updated.Discount = 0
	}

	if err := uc.storage.Update(ctx, updated); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	uc.notifier.Notify(ctx, id, domain.ChangeUpdated)

	ucLogger.Info("Use case finished successfully", nil)
	return &updated, nil
}
