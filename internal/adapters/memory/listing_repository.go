package memory

import (
	"context"
	"sort"
	"strings"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"
	"listing-service/internal/core/search"
)

type ListingRepository struct {
	store *Store
}

// active - копия активных объявлений
func (r *ListingRepository) active() []domain.Listing {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.Listing, 0, len(r.store.listings))
	for _, l := range r.store.listings {
		if l.Active {
			out = append(out, cloneListing(l))
		}
	}
	return out
}

func newestFirst(listings []domain.Listing, limit int) []domain.Listing {
	sort.SliceStable(listings, func(i, j int) bool {
		if !listings[i].PublishedAt.Equal(listings[j].PublishedAt) {
			return listings[i].PublishedAt.After(listings[j].PublishedAt)
		}
		return listings[i].ID < listings[j].ID
	})
	if limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}
	return listings
}

func (r *ListingRepository) FindNearby(_ context.Context, lat, lng, radiusKm float64, limit int) ([]domain.NearbyListing, error) {
	return geo.WithinRadius(r.active(), lat, lng, radiusKm, limit), nil
}

func (r *ListingRepository) FindByStatus(_ context.Context, status domain.ListingStatus, limit int) ([]domain.Listing, error) {
	matched := make([]domain.Listing, 0)
	for _, l := range r.active() {
		if l.Status == status {
			matched = append(matched, l)
		}
	}
	return newestFirst(matched, limit), nil
}

func (r *ListingRepository) FindRecent(_ context.Context, limit int) ([]domain.Listing, error) {
	return newestFirst(r.active(), limit), nil
}

func (r *ListingRepository) FindByNeighborhood(_ context.Context, city, neighborhood string) ([]domain.Listing, error) {
	matched := make([]domain.Listing, 0)
	for _, l := range r.active() {
		if l.City == city && l.Neighborhood == neighborhood {
			matched = append(matched, l)
		}
	}
	return newestFirst(matched, 0), nil
}

func (r *ListingRepository) FindByCells(_ context.Context, cells []string, excludeID int64, limit int) ([]domain.Listing, error) {
	matched := make([]domain.Listing, 0)
	for _, l := range r.active() {
		if l.ID == excludeID {
			continue
		}
		for _, cell := range cells {
			if cell != "" && strings.HasPrefix(l.Geohash, cell) {
				matched = append(matched, l)
				break
			}
		}
		if limit > 0 && len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (r *ListingRepository) Search(_ context.Context, filter domain.SearchFilter) ([]domain.SearchHit, error) {
	return search.Apply(r.active(), filter), nil
}

func (r *ListingRepository) SearchText(_ context.Context, term string) ([]domain.SearchHit, error) {
	return search.MatchText(r.active(), term), nil
}

func (r *ListingRepository) ListActive(_ context.Context) ([]domain.Listing, error) {
	return r.active(), nil
}

func (r *ListingRepository) GetByID(_ context.Context, id int64) (*domain.ListingDetails, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i := r.store.indexOf(id)
	if i < 0 {
		return nil, domain.ErrListingNotFound
	}
	l := cloneListing(r.store.listings[i])

	amenities := make([]domain.Amenity, 0, len(l.AmenityIDs))
	for _, a := range r.store.amenities {
		for _, id := range l.AmenityIDs {
			if a.ID == id {
				amenities = append(amenities, a)
				break
			}
		}
	}
	return &domain.ListingDetails{Listing: l, Amenities: amenities}, nil
}

func (r *ListingRepository) ListAmenities(_ context.Context) ([]domain.Amenity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return append([]domain.Amenity{}, r.store.amenities...), nil
}

func (r *ListingRepository) Create(_ context.Context, listing domain.Listing) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, l := range r.store.listings {
		if l.Slug != "" && l.Slug == listing.Slug {
			return 0, domain.ErrSlugTaken
		}
	}

	r.store.nextListingID++
	listing.ID = r.store.nextListingID
	r.store.listings = append(r.store.listings, cloneListing(listing))
	return listing.ID, nil
}

// Update переписывает изменяемые поля. Счетчик просмотров остается тем, что в хранилище.
func (r *ListingRepository) Update(_ context.Context, listing domain.Listing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.indexOf(listing.ID)
	if i < 0 {
		return domain.ErrListingNotFound
	}
	current := r.store.listings[i]
	listing.Views = current.Views
	listing.Slug = current.Slug
	listing.PublishedAt = current.PublishedAt
	listing.Active = current.Active
	r.store.listings[i] = cloneListing(listing)
	return nil
}

func (r *ListingRepository) SetPromotion(_ context.Context, id int64, status domain.ListingStatus, discount int) error {
	return r.modify(id, func(l *domain.Listing) {
		l.Status = status
		l.Discount = discount
	})
}

func (r *ListingRepository) Deactivate(_ context.Context, id int64) error {
	return r.modify(id, func(l *domain.Listing) { l.Active = false })
}

func (r *ListingRepository) IncrementViews(_ context.Context, id int64) error {
	return r.modify(id, func(l *domain.Listing) { l.Views++ })
}

func (r *ListingRepository) modify(id int64, fn func(l *domain.Listing)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	i := r.store.indexOf(id)
	if i < 0 {
		return domain.ErrListingNotFound
	}
	fn(&r.store.listings[i])
	return nil
}
