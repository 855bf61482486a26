package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"
	"listing-service/internal/core/search"

	"github.com/google/uuid"
)

var errStorageDown = errors.New("storage is down")

// fakeStorage - хранилище объявлений в памяти со счетчиками вызовов
type fakeStorage struct {
	mu        sync.Mutex
	listings  []domain.Listing
	amenities []domain.Amenity
	nextID    int64
	err       error

	nearbyCalls atomic.Int32
	statusCalls atomic.Int32
	recentCalls atomic.Int32
}

func newFakeStorage(listings ...domain.Listing) *fakeStorage {
	s := &fakeStorage{nextID: 1000}
	s.listings = append(s.listings, listings...)
	return s
}

func (s *fakeStorage) snapshot() []domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Listing(nil), s.listings...)
}

func (s *fakeStorage) active() []domain.Listing {
	out := make([]domain.Listing, 0)
	for _, l := range s.snapshot() {
		if l.Active {
			out = append(out, l)
		}
	}
	return out
}

func (s *fakeStorage) FindNearby(_ context.Context, lat, lng, radiusKm float64, limit int) ([]domain.NearbyListing, error) {
	s.nearbyCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return geo.WithinRadius(s.snapshot(), lat, lng, radiusKm, limit), nil
}

func (s *fakeStorage) FindByStatus(_ context.Context, status domain.ListingStatus, limit int) ([]domain.Listing, error) {
	s.statusCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	hits := search.Apply(s.snapshot(), domain.SearchFilter{Status: status})
	out := make([]domain.Listing, 0)
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, h.Listing)
	}
	return out, nil
}

func (s *fakeStorage) FindRecent(_ context.Context, limit int) ([]domain.Listing, error) {
	s.recentCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	hits := search.Apply(s.snapshot(), domain.SearchFilter{})
	out := make([]domain.Listing, 0)
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, h.Listing)
	}
	return out, nil
}

func (s *fakeStorage) FindByNeighborhood(_ context.Context, city, neighborhood string) ([]domain.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Listing, 0)
	for _, l := range s.active() {
		if l.City == city && l.Neighborhood == neighborhood {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStorage) FindByCells(_ context.Context, cells []string, excludeID int64, limit int) ([]domain.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Listing, 0)
	for _, l := range s.active() {
		if l.ID == excludeID {
			continue
		}
		for _, c := range cells {
			if len(l.Geohash) >= len(c) && l.Geohash[:len(c)] == c {
				out = append(out, l)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStorage) Search(_ context.Context, filter domain.SearchFilter) ([]domain.SearchHit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return search.Apply(s.snapshot(), filter), nil
}

func (s *fakeStorage) SearchText(_ context.Context, term string) ([]domain.SearchHit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return search.MatchText(s.snapshot(), term), nil
}

func (s *fakeStorage) ListActive(_ context.Context) ([]domain.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.active(), nil
}

func (s *fakeStorage) GetByID(_ context.Context, id int64) (*domain.ListingDetails, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, l := range s.active() {
		if l.ID == id {
			return &domain.ListingDetails{Listing: l, Amenities: []domain.Amenity{}}, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (s *fakeStorage) ListAmenities(_ context.Context) ([]domain.Amenity, error) {
	return s.amenities, nil
}

func (s *fakeStorage) Create(_ context.Context, listing domain.Listing) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	listing.ID = s.nextID
	s.listings = append(s.listings, listing)
	return listing.ID, nil
}

func (s *fakeStorage) modify(id int64, fn func(l *domain.Listing)) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.listings {
		if s.listings[i].ID == id && s.listings[i].Active {
			fn(&s.listings[i])
			return nil
		}
	}
	return domain.ErrListingNotFound
}

func (s *fakeStorage) Update(_ context.Context, listing domain.Listing) error {
	return s.modify(listing.ID, func(l *domain.Listing) { *l = listing })
}

func (s *fakeStorage) SetPromotion(_ context.Context, id int64, status domain.ListingStatus, discount int) error {
	return s.modify(id, func(l *domain.Listing) {
		l.Status = status
		l.Discount = discount
	})
}

func (s *fakeStorage) Deactivate(_ context.Context, id int64) error {
	return s.modify(id, func(l *domain.Listing) { l.Active = false })
}

func (s *fakeStorage) IncrementViews(_ context.Context, id int64) error {
	return s.modify(id, func(l *domain.Listing) { l.Views++ })
}

// fakeCache хранит JSON, как настоящий кеш. failGet имитирует недоступный кеш.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false
	}
	raw, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	c.ttls[key] = ttl
}

func (c *fakeCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *fakeCache) InvalidateByPattern(_ context.Context, pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
}

func (c *fakeCache) Close() error { return nil }

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *fakeCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type fakeEvents struct {
	mu      sync.Mutex
	changes []domain.ListingChange
	err     error
}

func (e *fakeEvents) PublishListingChanged(_ context.Context, change domain.ListingChange) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.changes = append(e.changes, change)
	return nil
}

type fakeFavorites struct {
	mu    sync.Mutex
	items map[uuid.UUID]map[int64]time.Time
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{items: map[uuid.UUID]map[int64]time.Time{}}
}

func (f *fakeFavorites) Add(_ context.Context, userID uuid.UUID, listingID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items[userID] == nil {
		f.items[userID] = map[int64]time.Time{}
	}
	if _, ok := f.items[userID][listingID]; ok {
		return domain.ErrAlreadyFavorite
	}
	f.items[userID][listingID] = time.Now()
	return nil
}

func (f *fakeFavorites) Remove(_ context.Context, userID uuid.UUID, listingID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[userID][listingID]; !ok {
		return domain.ErrFavoriteNotFound
	}
	delete(f.items[userID], listingID)
	return nil
}

func (f *fakeFavorites) List(_ context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Favorite
	for id, at := range f.items[userID] {
		out = append(out, domain.Favorite{UserID: userID, ListingID: id, CreatedAt: at})
	}
	return out, nil
}

func (f *fakeFavorites) Exists(_ context.Context, userID uuid.UUID, listingID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[userID][listingID]
	return ok, nil
}

type fakeLeads struct {
	mu     sync.Mutex
	leads  []domain.Lead
	nextID int64
}

func (r *fakeLeads) Create(_ context.Context, lead domain.Lead) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	lead.ID = r.nextID
	r.leads = append(r.leads, lead)
	return lead.ID, nil
}

func (r *fakeLeads) List(_ context.Context, filter domain.LeadFilter) (*domain.PaginatedLeads, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.Lead
	for _, l := range r.leads {
		if filter.Status == "" || l.Status == filter.Status {
			matched = append(matched, l)
		}
	}
	return &domain.PaginatedLeads{
		Leads:      matched,
		Total:      len(matched),
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: search.TotalPages(len(matched), filter.PageSize),
	}, nil
}

func (r *fakeLeads) UpdateStatus(_ context.Context, id int64, status domain.LeadStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.leads {
		if r.leads[i].ID == id {
			r.leads[i].Status = status
			return nil
		}
	}
	return domain.ErrLeadNotFound
}

func (r *fakeLeads) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.leads {
		if r.leads[i].ID == id {
			r.leads = append(r.leads[:i], r.leads[i+1:]...)
			return nil
		}
	}
	return domain.ErrLeadNotFound
}

type fakeReviews struct {
	mu      sync.Mutex
	reviews []domain.Review
	nextID  int64
	err     error
}

func (f *fakeReviews) Upsert(_ context.Context, review domain.Review) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, false, f.err
	}
	for i := range f.reviews {
		if f.reviews[i].ListingID == review.ListingID && f.reviews[i].UserID == review.UserID {
			review.ID = f.reviews[i].ID
			f.reviews[i] = review
			return review.ID, false, nil
		}
	}
	f.nextID++
	review.ID = f.nextID
	f.reviews = append(f.reviews, review)
	return review.ID, true, nil
}

func (f *fakeReviews) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrReviewNotFound
}

func (f *fakeReviews) ListByListing(_ context.Context, listingID int64) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Review
	for _, r := range f.reviews {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Review
	for _, r := range f.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) RatingDistribution(_ context.Context, listingID int64) (map[int]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[int]int{}
	for _, r := range f.reviews {
		if r.ListingID == listingID {
			counts[r.Rating]++
		}
	}
	return counts, nil
}

func (f *fakeReviews) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return domain.ErrReviewNotFound
}

// fakeAnalytics отдает заранее заданные агрегаты
type fakeAnalytics struct {
	top        []domain.ViewedListing
	totals     map[domain.ListingStatus]domain.GroupTotals
	rows       []domain.NeighborhoodTotals
	leads      map[domain.LeadStatus]int
	perListing map[int64]int
	err        error

	lastLimit int
}

func (f *fakeAnalytics) TopViewed(_ context.Context, limit int) ([]domain.ViewedListing, error) {
	f.lastLimit = limit
	return f.top, f.err
}

func (f *fakeAnalytics) StatusTotals(_ context.Context) (map[domain.ListingStatus]domain.GroupTotals, error) {
	return f.totals, f.err
}

func (f *fakeAnalytics) NeighborhoodTotals(_ context.Context) ([]domain.NeighborhoodTotals, error) {
	return f.rows, f.err
}

func (f *fakeAnalytics) LeadCounts(_ context.Context) (map[domain.LeadStatus]int, map[int64]int, error) {
	return f.leads, f.perListing, f.err
}
