package port

import (
	"context"

	"listing-service/internal/core/domain"
)

// ListingReaderPort - чтение объявлений. Все выборки возвращают только активные объявления.
type ListingReaderPort interface {
	// FindNearby - объявления в радиусе, по возрастанию расстояния, не больше limit
	FindNearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]domain.NearbyListing, error)
	// FindByStatus - от новых к старым
	FindByStatus(ctx context.Context, status domain.ListingStatus, limit int) ([]domain.Listing, error)
	FindRecent(ctx context.Context, limit int) ([]domain.Listing, error)
	FindByNeighborhood(ctx context.Context, city, neighborhood string) ([]domain.Listing, error)
	// FindByCells - объявления, чей геохеш начинается с одной из ячеек
	FindByCells(ctx context.Context, cells []string, excludeID int64, limit int) ([]domain.Listing, error)

	// Search возвращает полный отфильтрованный и упорядоченный набор, пагинацию делает вызывающий
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.SearchHit, error)
	SearchText(ctx context.Context, term string) ([]domain.SearchHit, error)
	ListActive(ctx context.Context) ([]domain.Listing, error)

	GetByID(ctx context.Context, id int64) (*domain.ListingDetails, error)
	ListAmenities(ctx context.Context) ([]domain.Amenity, error)
}

// ListingWriterPort - изменения объявлений из админки
type ListingWriterPort interface {
	Create(ctx context.Context, listing domain.Listing) (int64, error)
	// Update перезаписывает изменяемые поля и набор удобств
	Update(ctx context.Context, listing domain.Listing) error
	// SetPromotion меняет статус и скидку одним запросом
	SetPromotion(ctx context.Context, id int64, status domain.ListingStatus, discount int) error
	Deactivate(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) error
}

// ListingStoragePort - полный набор операций над объявлениями
type ListingStoragePort interface {
	ListingReaderPort
	ListingWriterPort
}

// DashboardStatsPort - агрегаты для админки
type DashboardStatsPort interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

// AnalyticsPort - сырые агрегаты для отчетов, только по активным объявлениям
type AnalyticsPort interface {
	TopViewed(ctx context.Context, limit int) ([]domain.ViewedListing, error)
	StatusTotals(ctx context.Context) (map[domain.ListingStatus]domain.GroupTotals, error)
	NeighborhoodTotals(ctx context.Context) ([]domain.NeighborhoodTotals, error)
	// LeadCounts - заявки по статусам и по объявлениям
	LeadCounts(ctx context.Context) (map[domain.LeadStatus]int, map[int64]int, error)
}
