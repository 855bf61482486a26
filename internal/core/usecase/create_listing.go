package usecase

import (
	"context"
	"strings"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"
	"listing-service/internal/core/port"
)

type CreateListingUseCase struct {
	storage  port.ListingWriterPort
	notifier *ListingChangeNotifier
	now      func() time.Time
}

func NewCreateListingUseCase(storage port.ListingWriterPort, notifier *ListingChangeNotifier) *CreateListingUseCase {
	return &CreateListingUseCase{storage: storage, notifier: notifier, now: time.Now}
}

func (uc *CreateListingUseCase) Execute(ctx context.Context, draft domain.ListingDraft) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "CreateListing", "title": draft.Title})
	ucLogger.Info("Use case started", nil)

	draft.Title = strings.TrimSpace(draft.Title)
	draft.Neighborhood = strings.TrimSpace(draft.Neighborhood)
	draft.City = strings.TrimSpace(draft.City)
	if err := draft.Validate(); err != nil {
		ucLogger.Warn("Invalid listing draft", port.Fields{"error": err.Error()})
		return nil, err
	}

	status := domain.StatusAvailable
	if draft.Status != "" {
		// регистр и пробелы приводятся к каноническому виду
		status, _ = domain.ParseListingStatus(string(draft.Status))
	}
	now := uc.now().UTC()

	listing := domain.Listing{
		Title:          draft.Title,
		Description:    draft.Description,
		Price:          draft.Price,
		PropertyTypeID: draft.PropertyTypeID,
		Street:         draft.Street,
		Neighborhood:   draft.Neighborhood,
		City:           draft.City,
		State:          draft.State,
		PostalCode:     draft.PostalCode,
		Latitude:       draft.Latitude,
		Longitude:      draft.Longitude,
		Geohash:        geo.StoredCell(draft.Latitude, draft.Longitude),
		Status:         status,
		PublishedAt:    now,
		Slug:           makeSlug(draft.Title, now),
		ImageURL:       draft.ImageURL,
		BedroomCount:   draft.BedroomCount,
		BathroomCount:  draft.BathroomCount,
		AreaM2:         draft.AreaM2,
		Typology:       draft.Typology,
		Active:         true,
		AmenityIDs:     append([]int64(nil), draft.AmenityIDs...),
	}
	if status.HasDiscount() {
		listing.Discount = draft.Discount
	}

	id, err := uc.storage.Create(ctx, listing)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	listing.ID = id

	uc.notifier.Notify(ctx, id, domain.ChangeCreated)

	ucLogger.Info("Use case finished successfully", port.Fields{"listing_id": id, "slug": listing.Slug})
	return &listing, nil
}
