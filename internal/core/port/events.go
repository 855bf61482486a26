package port

import (
	"context"

	"listing-service/internal/core/domain"
)

// ListingEventsPort публикует изменения объявлений для других реплик
type ListingEventsPort interface {
	PublishListingChanged(ctx context.Context, change domain.ListingChange) error
}

// EventListenerPort - входящий адаптер, который слушает брокер
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
