package memory

import (
	"context"
	"testing"
	"time"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ port.ListingStoragePort      = (*ListingRepository)(nil)
	_ port.FavoritesRepositoryPort = (*FavoritesRepository)(nil)
	_ port.LeadRepositoryPort      = (*LeadRepository)(nil)
	_ port.DashboardStatsPort      = (*Store)(nil)
	_ port.ReviewRepositoryPort    = (*ReviewRepository)(nil)
	_ port.AnalyticsPort           = (*AnalyticsRepository)(nil)
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s, err := LoadSeedFile("testdata/seed.json")
	require.NoError(t, err)
	return s
}

func TestLoadSeedFile(t *testing.T) {
	s := seeded(t)
	active, err := s.Listings().ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 3)
	for _, l := range active {
		assert.Len(t, l.Geohash, 7)
	}

	_, err = LoadSeedFile("testdata/missing.json")
	require.Error(t, err)
}

func TestListingRepository_Reads(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t).Listings()

	nearby, err := repo.FindNearby(ctx, -23.5747, -46.6433, 5, 100)
	require.NoError(t, err)
	require.Len(t, nearby, 2, "inactive listing 4 is excluded")
	assert.Equal(t, int64(1), nearby[0].Listing.ID)
	assert.Equal(t, int64(2), nearby[1].Listing.ID)

	recent, err := repo.FindRecent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2}, []int64{recent[0].ID, recent[1].ID})

	rented, err := repo.FindByStatus(ctx, domain.StatusRented, 10)
	require.NoError(t, err)
	assert.Empty(t, rented)

	paraiso, err := repo.FindByNeighborhood(ctx, "São Paulo", "Paraíso")
	require.NoError(t, err)
	require.Len(t, paraiso, 1)

	hits, err := repo.Search(ctx, domain.SearchFilter{City: "são paulo", AmenityIDs: []int64{2, 3}})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, int64(2), hits[0].Listing.ID, "newest first")

	text, err := repo.SearchText(ctx, "PRAIA")
	require.NoError(t, err)
	require.Len(t, text, 1)
	assert.Equal(t, int64(3), text[0].Listing.ID)

	details, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, details.Amenities, 3)

	_, err = repo.GetByID(ctx, 4)
	require.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestListingRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t).Listings()

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	active[0].Title = "mutated"
	active[0].AmenityIDs[0] = 99

	details, err := repo.GetByID(ctx, active[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", details.Listing.Title)
	assert.NotContains(t, details.Listing.AmenityIDs, int64(99))
}

func TestListingRepository_Writes(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t).Listings()

	id, err := repo.Create(ctx, domain.Listing{Title: "Novo", Slug: "novo-1", Active: true, City: "Recife", Neighborhood: "Boa Viagem"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	_, err = repo.Create(ctx, domain.Listing{Title: "Novo", Slug: "novo-1", Active: true})
	require.ErrorIs(t, err, domain.ErrSlugTaken)

	require.NoError(t, repo.IncrementViews(ctx, id))
	require.NoError(t, repo.Update(ctx, domain.Listing{ID: id, Title: "Renovado", City: "Recife", Neighborhood: "Boa Viagem"}))

	details, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renovado", details.Listing.Title)
	assert.Equal(t, int64(1), details.Listing.Views)
	assert.Equal(t, "novo-1", details.Listing.Slug)
	assert.True(t, details.Listing.Active)

	require.NoError(t, repo.SetPromotion(ctx, id, domain.StatusPromotion, 25))
	promoted, err := repo.FindByStatus(ctx, domain.StatusPromotion, 10)
	require.NoError(t, err)
	assert.Len(t, promoted, 2)

	require.NoError(t, repo.Deactivate(ctx, id))
	require.ErrorIs(t, repo.Deactivate(ctx, id), domain.ErrListingNotFound)
	require.ErrorIs(t, repo.SetPromotion(ctx, 404, domain.StatusPromotion, 0), domain.ErrListingNotFound)
}

func TestFavoritesRepository(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	favs := s.Favorites()
	user := uuid.New()

	require.NoError(t, favs.Add(ctx, user, 1))
	require.NoError(t, favs.Add(ctx, user, 2))
	require.ErrorIs(t, favs.Add(ctx, user, 1), domain.ErrAlreadyFavorite)

	list, err := favs.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ListingID)
	require.NotNil(t, list[0].Listing)

	require.NoError(t, s.Listings().Deactivate(ctx, 2))
	list, err = favs.List(ctx, user)
	require.NoError(t, err)
	assert.Nil(t, list[0].Listing)

	require.NoError(t, favs.Remove(ctx, user, 1))
	require.ErrorIs(t, favs.Remove(ctx, user, 1), domain.ErrFavoriteNotFound)

	exists, err := favs.Exists(ctx, user, 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLeadRepository(t *testing.T) {
	ctx := context.Background()
	leads := seeded(t).Leads()

	for i := 0; i < 5; i++ {
		_, err := leads.Create(ctx, domain.Lead{Name: "Ana", Email: "ana@example.com", Phone: "1199999999", Status: domain.LeadNew})
		require.NoError(t, err)
	}
	require.NoError(t, leads.UpdateStatus(ctx, 1, domain.LeadAnswered))
	require.ErrorIs(t, leads.UpdateStatus(ctx, 99, domain.LeadAnswered), domain.ErrLeadNotFound)

	page, err := leads.List(ctx, domain.LeadFilter{Status: domain.LeadNew, Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Leads, 1)
	assert.Equal(t, int64(2), page.Leads[0].ID)

	require.NoError(t, leads.Delete(ctx, 2))
	require.ErrorIs(t, leads.Delete(ctx, 2), domain.ErrLeadNotFound)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	require.NoError(t, s.Listings().IncrementViews(ctx, 3))
	_, err := s.Leads().Create(ctx, domain.Lead{Name: "Ana", Status: domain.LeadNew})
	require.NoError(t, err)
	require.NoError(t, s.Favorites().Add(ctx, uuid.New(), 1))

	stats, err := s.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalListings)
	assert.Equal(t, 3, stats.ActiveListings)
	assert.Equal(t, 1, stats.ByStatus[domain.StatusPromotion])
	assert.Equal(t, 0, stats.ByStatus[domain.StatusRented])
	assert.Equal(t, 1, stats.NewLeads)
	assert.Equal(t, 1, stats.TotalFavorites)
	require.NotNil(t, stats.MostViewed)
	assert.Equal(t, int64(3), stats.MostViewed.ID)
}

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	reviews := s.Reviews()
	author, other := uuid.New(), uuid.New()

	id, created, err := reviews.Upsert(ctx, domain.Review{ListingID: 1, UserID: author, Rating: 4, Title: "Muito bom", Comment: "Perto do parque, bem iluminado"})
	require.NoError(t, err)
	assert.True(t, created)

	clock = clock.Add(time.Hour)
	sameID, created, err := reviews.Upsert(ctx, domain.Review{ListingID: 1, UserID: author, Rating: 2, Title: "Mudei de ideia", Comment: "Barulho da rua a noite toda"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, sameID)

	clock = clock.Add(time.Hour)
	_, _, err = reviews.Upsert(ctx, domain.Review{ListingID: 1, UserID: other, Rating: 5, Title: "Excelente", Comment: "Recomendo para familias"})
	require.NoError(t, err)
	_, _, err = reviews.Upsert(ctx, domain.Review{ListingID: 4, UserID: author, Rating: 3, Title: "Pequena", Comment: "Cabe so uma pessoa mesmo"})
	require.NoError(t, err)

	byListing, err := reviews.ListByListing(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byListing, 2)
	assert.Equal(t, other, byListing[0].UserID)
	assert.Equal(t, 2, byListing[1].Rating)
	assert.True(t, byListing[1].UpdatedAt.After(byListing[1].CreatedAt))

	mine, err := reviews.ListByUser(ctx, author)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, int64(4), mine[0].ListingID)
	assert.Empty(t, mine[0].ListingTitle, "inactive listing has no title")
	assert.Equal(t, "Apartamento perto do Ibirapuera", mine[1].ListingTitle)

	counts, err := reviews.RatingDistribution(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{2: 1, 5: 1}, counts)

	require.NoError(t, reviews.Delete(ctx, id))
	require.ErrorIs(t, reviews.Delete(ctx, id), domain.ErrReviewNotFound)
	_, err = reviews.GetByID(ctx, id)
	require.ErrorIs(t, err, domain.ErrReviewNotFound)
}

func TestAnalyticsRepository(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Listings().IncrementViews(ctx, 2))
	}
	require.NoError(t, s.Listings().IncrementViews(ctx, 3))
	listingID := int64(1)
	_, err := s.Leads().Create(ctx, domain.Lead{ListingID: &listingID, Name: "Ana", Status: domain.LeadNew})
	require.NoError(t, err)
	_, err = s.Leads().Create(ctx, domain.Lead{Name: "Bia", Status: domain.LeadAnswered})
	require.NoError(t, err)
	analytics := s.Analytics()

	top, err := analytics.TopViewed(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(2), top[0].ID)
	assert.Equal(t, int64(3), top[0].Views)
	assert.Equal(t, int64(3), top[1].ID)

	totals, err := analytics.StatusTotals(ctx)
	require.NoError(t, err)
	assert.NotContains(t, totals, domain.StatusRented, "inactive rented listing is not counted")
	assert.Equal(t, domain.GroupTotals{Count: 1, Views: 3, PriceSum: 2500}, totals[domain.StatusPromotion])

	rows, err := analytics.NeighborhoodTotals(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	byStatus, perListing, err := analytics.LeadCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, byStatus[domain.LeadNew])
	assert.Equal(t, 1, byStatus[domain.LeadAnswered])
	assert.Equal(t, map[int64]int{1: 1}, perListing)
}
