// Package memory - хранилище в памяти процесса для локального запуска и демо.
// Все выборки работают на тех же функциях search и geo, что и проверки результатов postgres.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"

	"github.com/google/uuid"
)

type favoriteEntry struct {
	listingID int64
	createdAt time.Time
}

// Store держит объявления, избранное, заявки и отзывы под одним мьютексом
type Store struct {
	mu sync.RWMutex

	listings      []domain.Listing
	amenities     []domain.Amenity
	nextListingID int64

	favorites map[uuid.UUID][]favoriteEntry

	leads      []domain.Lead
	nextLeadID int64

	reviews      []domain.Review
	nextReviewID int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		favorites: make(map[uuid.UUID][]favoriteEntry),
		now:       time.Now,
	}
}

// SeedData - формат файла SEED_FILE
type SeedData struct {
	Amenities []domain.Amenity `json:"amenities"`
	Listings  []domain.Listing `json:"listings"`
}

// LoadSeedFile создает хранилище и наполняет его из JSON-файла
func LoadSeedFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}

	s := NewStore()
	s.Seed(data.Listings, data.Amenities)
	return s, nil
}

// Seed добавляет данные как есть. Недостающие геохеш и дата публикации достраиваются.
func (s *Store) Seed(listings []domain.Listing, amenities []domain.Amenity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.amenities = append(s.amenities, amenities...)
	sort.Slice(s.amenities, func(i, j int) bool { return s.amenities[i].Name < s.amenities[j].Name })

	for _, l := range listings {
		if l.ID == 0 {
			s.nextListingID++
			l.ID = s.nextListingID
		}
		if l.ID > s.nextListingID {
			s.nextListingID = l.ID
		}
		if l.Geohash == "" {
			l.Geohash = geo.StoredCell(l.Latitude, l.Longitude)
		}
		if l.PublishedAt.IsZero() {
			l.PublishedAt = s.now().UTC()
		}
		s.listings = append(s.listings, cloneListing(l))
	}
	sort.Slice(s.listings, func(i, j int) bool { return s.listings[i].ID < s.listings[j].ID })
}

// Listings - репозиторий объявлений поверх общего хранилища
func (s *Store) Listings() *ListingRepository {
	return &ListingRepository{store: s}
}

func (s *Store) Favorites() *FavoritesRepository {
	return &FavoritesRepository{store: s}
}

func (s *Store) Leads() *LeadRepository {
	return &LeadRepository{store: s}
}

func (s *Store) Reviews() *ReviewRepository {
	return &ReviewRepository{store: s}
}

// Analytics - агрегаты для отчетов админки
func (s *Store) Analytics() *AnalyticsRepository {
	return &AnalyticsRepository{store: s}
}

// DashboardStats считает сводку по текущему состоянию
func (s *Store) DashboardStats(_ context.Context) (*domain.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.DashboardStats{
		TotalListings: len(s.listings),
		ByStatus:      make(map[domain.ListingStatus]int, len(domain.AllStatuses)),
		TotalLeads:    len(s.leads),
		GeneratedAt:   s.now().UTC(),
	}
	for _, status := range domain.AllStatuses {
		stats.ByStatus[status] = 0
	}

	for i := range s.listings {
		l := s.listings[i]
		if !l.Active {
			continue
		}
		stats.ActiveListings++
		stats.ByStatus[l.Status]++
		if stats.MostViewed == nil || l.Views > stats.MostViewed.Views {
			mostViewed := cloneListing(l)
			stats.MostViewed = &mostViewed
		}
	}
	for _, lead := range s.leads {
		if lead.Status == domain.LeadNew {
			stats.NewLeads++
		}
	}
	for _, entries := range s.favorites {
		stats.TotalFavorites += len(entries)
	}
	return stats, nil
}

func cloneListing(l domain.Listing) domain.Listing {
	if l.AmenityIDs != nil {
		l.AmenityIDs = append([]int64(nil), l.AmenityIDs...)
	}
	return l
}

// indexOf ищет активное объявление, вызывать под блокировкой
func (s *Store) indexOf(id int64) int {
	for i := range s.listings {
		if s.listings[i].ID == id && s.listings[i].Active {
			return i
		}
	}
	return -1
}
