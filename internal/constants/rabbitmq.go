package constants

// Обменник изменений объявлений. Fanout: каждая реплика получает свою копию.
const (
	ListingEventsExchange     = "listing.events"
	ListingEventsExchangeType = "fanout"

	RoutingKeyListingChanged = "listing.changed"
)

// Метаданные события в заголовках сообщения
const (
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	HeaderTraceID      = "x-trace-id"

	ListingChangedEventType    = "ListingChangedEvent"
	ListingChangedEventVersion = "1.0.0"
)
