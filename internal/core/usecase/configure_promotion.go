package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type ConfigurePromotionUseCase struct {
	storage  port.ListingWriterPort
	notifier *ListingChangeNotifier
}

func NewConfigurePromotionUseCase(storage port.ListingWriterPort, notifier *ListingChangeNotifier) *ConfigurePromotionUseCase {
	return &ConfigurePromotionUseCase{storage: storage, notifier: notifier}
}

// Execute меняет статус и скидку. Для статусов без акции скидка обнуляется.
func (uc *ConfigurePromotionUseCase) Execute(ctx context.Context, id int64, status domain.ListingStatus, discount int) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "ConfigurePromotion",
		"listing_id": id,
		"status":     status,
		"discount":   discount,
	})
	ucLogger.Info("Use case started", nil)

	parsed, err := domain.ParseListingStatus(string(status))
	if err != nil {
		ucLogger.Warn("Invalid status", port.Fields{"error": err.Error()})
		return err
	}
	if err := domain.ValidateDiscount(discount); err != nil {
		ucLogger.Warn("Invalid discount", nil)
		return err
	}
	if !parsed.HasDiscount() {
		discount = 0
	}

	if err := uc.storage.SetPromotion(ctx, id, parsed, discount); err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return err
	}

	uc.notifier.Notify(ctx, id, domain.ChangePromotion)

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
