package usecase

import (
	"context"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/cachekeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
)

// ListingChangeNotifier сбрасывает локальный кеш после записи и сообщает об изменении
// остальным репликам. events может быть nil, если брокер выключен.
type ListingChangeNotifier struct {
	cache  port.CachePort
	events port.ListingEventsPort
	origin string
	now    func() time.Time
}

func NewListingChangeNotifier(cache port.CachePort, events port.ListingEventsPort, origin string) *ListingChangeNotifier {
	return &ListingChangeNotifier{
		cache:  cache,
		events: events,
		origin: origin,
		now:    time.Now,
	}
}

// Origin - id реплики, которым подписываются события
func (n *ListingChangeNotifier) Origin() string {
	return n.origin
}

// Notify не возвращает ошибку: запись в хранилище уже прошла,
// а неудачная публикация только логируется.
func (n *ListingChangeNotifier) Notify(ctx context.Context, listingID int64, kind domain.ChangeKind) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"listing_id":  listingID,
		"change_kind": kind,
	})

	invalidateListingCaches(ctx, n.cache, cachekeys.ListingInvalidationPatterns())
	logger.Debug("Listing caches invalidated", nil)

	if n.events == nil {
		return
	}

	change := domain.ListingChange{
		EventID:    uuid.New(),
		ListingID:  listingID,
		Kind:       kind,
		OccurredAt: n.now().UTC(),
		Origin:     n.origin,
	}
	if err := n.events.PublishListingChanged(ctx, change); err != nil {
		logger.Error("Failed to publish listing change", err, port.Fields{"event_id": change.EventID})
		return
	}
	logger.Info("Listing change published", port.Fields{"event_id": change.EventID})
}
