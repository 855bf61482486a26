package rabbitmq

import (
	"time"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

// ListingChangedDTO - тело события ListingChangedEvent/1.0.0
type ListingChangedDTO struct {
	EventID    uuid.UUID `json:"event_id"`
	ListingID  int64     `json:"listing_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Origin     string    `json:"origin"`
}

func toListingChangedDTO(change domain.ListingChange) ListingChangedDTO {
	return ListingChangedDTO{
		EventID:    change.EventID,
		ListingID:  change.ListingID,
		Kind:       string(change.Kind),
		OccurredAt: change.OccurredAt.UTC(),
		Origin:     change.Origin,
	}
}

func toDomainListingChange(dto ListingChangedDTO) domain.ListingChange {
	return domain.ListingChange{
		EventID:    dto.EventID,
		ListingID:  dto.ListingID,
		Kind:       domain.ChangeKind(dto.Kind),
		OccurredAt: dto.OccurredAt,
		Origin:     dto.Origin,
	}
}
