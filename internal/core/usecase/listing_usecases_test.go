package usecase

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"listing-service/internal/core/cachekeys"
	"listing-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetListingDetails_IncrementsViews(t *testing.T) {
	storage := tokyoStorage()
	uc := NewGetListingDetailsUseCase(storage, storage)

	details, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), details.Listing.Views)

	details, err = uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), details.Listing.Views)

	_, err = uc.Execute(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestRecentListings_LimitAndCache(t *testing.T) {
	storage := tokyoStorage()
	cache := newFakeCache()
	uc := NewRecentListingsUseCase(storage, cache)

	recent, err := uc.Execute(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, []int64{3, 2}, []int64{recent[0].ID, recent[1].ID})

	_, err = uc.Execute(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int32(1), storage.recentCalls.Load())
	assert.True(t, cache.has(cachekeys.RecentKey(2)))
}

func TestNeighborhoodListings(t *testing.T) {
	cache := newFakeCache()
	uc := NewNeighborhoodListingsUseCase(tokyoStorage(), cache)

	listings, err := uc.Execute(context.Background(), " Tokyo ", "Shibuya")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.True(t, cache.has("bairro:Tokyo:Shibuya"))

	_, err = uc.Execute(context.Background(), "Tokyo", "")
	require.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestSimilarListings_NearestInCells(t *testing.T) {
	origin := makeListing(1, 35.6812, 139.7671)
	close1 := makeListing(2, 35.6815, 139.7675)
	close2 := makeListing(3, 35.6830, 139.7690)
	close3 := makeListing(4, 35.6850, 139.7700)
	close4 := makeListing(5, 35.6900, 139.7750)
	far := makeListing(6, 34.7025, 135.4959)
	uc := NewSimilarListingsUseCase(newFakeStorage(origin, close4, close3, close2, close1, far))

	similar, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, similar, SimilarListingsLimit)
	assert.Equal(t, []int64{2, 3, 4}, []int64{similar[0].ID, similar[1].ID, similar[2].ID})
}

func TestSimilarListings_FallsBackToNeighborhood(t *testing.T) {
	origin := makeListing(1, 35.6812, 139.7671)
	sameArea := makeListing(2, 35.9, 139.9)
	otherArea := makeListing(3, 35.95, 139.95)
	otherArea.Neighborhood = "Elsewhere"
	uc := NewSimilarListingsUseCase(newFakeStorage(origin, sameArea, otherArea))

	similar, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, int64(2), similar[0].ID)
}

func TestCreateListing(t *testing.T) {
	storage := newFakeStorage()
	cache := newFakeCache()
	cache.Set(context.Background(), cachekeys.RecentKey(10), []domain.Listing{}, time.Minute)
	events := &fakeEvents{}
	uc := NewCreateListingUseCase(storage, NewListingChangeNotifier(cache, events, "replica-a"))
	uc.now = func() time.Time { return baseTime }

	created, err := uc.Execute(context.Background(), domain.ListingDraft{
		Title:        "Apartamento São Paulo",
		Neighborhood: "Pinheiros",
		City:         "São Paulo",
		Latitude:     -23.5614,
		Longitude:    -46.6559,
		Price:        3500,
		Discount:     20,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, domain.StatusAvailable, created.Status)
	assert.Zero(t, created.Discount, "available listings carry no discount")
	assert.Len(t, created.Geohash, 7)
	assert.True(t, strings.HasPrefix(created.Slug, "apartamento-sao-paulo-"))
	assert.Equal(t, baseTime, created.PublishedAt)

	assert.Zero(t, cache.size())
	require.Len(t, events.changes, 1)
	assert.Equal(t, domain.ChangeCreated, events.changes[0].Kind)
	assert.Equal(t, "replica-a", events.changes[0].Origin)
	assert.Equal(t, created.ID, events.changes[0].ListingID)
}

func TestCreateListing_Invalid(t *testing.T) {
	uc := NewCreateListingUseCase(newFakeStorage(), NewListingChangeNotifier(nil, nil, "r"))

	_, err := uc.Execute(context.Background(), domain.ListingDraft{Title: " ", City: "Tokyo", Neighborhood: "Chiyoda"})
	require.ErrorIs(t, err, domain.ErrInvalidListing)

	_, err = uc.Execute(context.Background(), domain.ListingDraft{
		Title: "x", City: "Tokyo", Neighborhood: "Chiyoda", Status: domain.StatusPromotion, Discount: 120,
	})
	require.ErrorIs(t, err, domain.ErrInvalidDiscount)

	for name, draft := range map[string]domain.ListingDraft{
		"nan latitude":   {Title: "x", City: "Tokyo", Neighborhood: "Chiyoda", Latitude: math.NaN()},
		"inf longitude":  {Title: "x", City: "Tokyo", Neighborhood: "Chiyoda", Longitude: math.Inf(-1)},
		"infinite price": {Title: "x", City: "Tokyo", Neighborhood: "Chiyoda", Price: math.Inf(1)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), draft)
			require.ErrorIs(t, err, domain.ErrInvalidListing)
		})
	}
}

func TestCreateListing_PublishFailureIsNotFatal(t *testing.T) {
	events := &fakeEvents{err: errStorageDown}
	uc := NewCreateListingUseCase(newFakeStorage(), NewListingChangeNotifier(nil, events, "r"))

	_, err := uc.Execute(context.Background(), domain.ListingDraft{Title: "x", City: "Tokyo", Neighborhood: "Chiyoda"})
	require.NoError(t, err)
}

func TestUpdateListing(t *testing.T) {
	storage := tokyoStorage()
	events := &fakeEvents{}
	uc := NewUpdateListingUseCase(storage, NewListingChangeNotifier(nil, events, "r"))

	before, err := storage.GetByID(context.Background(), 1)
	require.NoError(t, err)

	updated, err := uc.Execute(context.Background(), 1, domain.ListingPatch{
		Title:    ptr("Renovated"),
		Latitude: ptr(35.6900),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renovated", updated.Title)
	assert.Equal(t, before.Listing.Slug, updated.Slug)
	assert.NotEqual(t, before.Listing.Geohash, updated.Geohash)
	require.Len(t, events.changes, 1)
	assert.Equal(t, domain.ChangeUpdated, events.changes[0].Kind)

	_, err = uc.Execute(context.Background(), 404, domain.ListingPatch{Title: ptr("x")})
	require.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestDeleteListing_HidesListing(t *testing.T) {
	storage := tokyoStorage()
	uc := NewDeleteListingUseCase(storage, NewListingChangeNotifier(nil, nil, "r"))

	require.NoError(t, uc.Execute(context.Background(), 1))
	_, err := storage.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, domain.ErrListingNotFound)

	require.ErrorIs(t, uc.Execute(context.Background(), 1), domain.ErrListingNotFound)
}

func TestConfigurePromotion_ClearsDiscountForRegularStatus(t *testing.T) {
	storage := tokyoStorage()
	uc := NewConfigurePromotionUseCase(storage, NewListingChangeNotifier(nil, nil, "r"))

	require.NoError(t, uc.Execute(context.Background(), 1, domain.StatusRented, 30))
	details, err := storage.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRented, details.Listing.Status)
	assert.Zero(t, details.Listing.Discount)

	require.ErrorIs(t, uc.Execute(context.Background(), 1, "sold", 0), domain.ErrInvalidStatus)
	require.ErrorIs(t, uc.Execute(context.Background(), 1, domain.StatusPromotion, -1), domain.ErrInvalidDiscount)
}

func TestInvalidateListingCache_SkipsOwnEvents(t *testing.T) {
	cache := newFakeCache()
	ctx := context.Background()
	uc := NewInvalidateListingCacheUseCase(cache, "replica-a")

	cache.Set(ctx, "ofertas:available", []int{1}, time.Minute)
	cache.Set(ctx, "geo_cache:1:2:10", []int{1}, time.Minute)
	cache.Set(ctx, "unrelated", 1, time.Minute)

	require.NoError(t, uc.Execute(ctx, domain.ListingChange{EventID: uuid.New(), Origin: "replica-a"}))
	assert.Equal(t, 3, cache.size())

	require.NoError(t, uc.Execute(ctx, domain.ListingChange{EventID: uuid.New(), Origin: "replica-b"}))
	assert.Equal(t, 1, cache.size())
	assert.True(t, cache.has("unrelated"))
}

func TestMakeSlug(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	assert.Equal(t, "apartamento-sao-paulo-1700000000000", makeSlug("Apartamento  São Paulo!", at))
	assert.Equal(t, "casa-2-quartos-1700000000000", makeSlug("Casa, 2 quartos", at))
	assert.Equal(t, "imovel-1700000000000", makeSlug("東京", at))
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	storage := tokyoStorage()
	favorites := newFakeFavorites()
	user := uuid.New()

	add := NewAddToFavoritesUseCase(storage, favorites)
	require.NoError(t, add.Execute(ctx, user, 1))
	require.ErrorIs(t, add.Execute(ctx, user, 1), domain.ErrAlreadyFavorite)
	require.ErrorIs(t, add.Execute(ctx, user, 404), domain.ErrListingNotFound)

	is, err := NewIsFavoriteUseCase(favorites).Execute(ctx, user, 1)
	require.NoError(t, err)
	assert.True(t, is)

	list, err := NewGetUserFavoritesUseCase(favorites).Execute(ctx, user)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	remove := NewRemoveFromFavoritesUseCase(favorites)
	require.NoError(t, remove.Execute(ctx, user, 1))
	require.ErrorIs(t, remove.Execute(ctx, user, 1), domain.ErrFavoriteNotFound)

	list, err = NewGetUserFavoritesUseCase(favorites).Execute(ctx, user)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestLeads(t *testing.T) {
	ctx := context.Background()
	storage := tokyoStorage()
	leads := &fakeLeads{}

	create := NewCreateLeadUseCase(storage, leads)
	lead, err := create.Execute(ctx, domain.Lead{
		ListingID: ptr(int64(1)),
		Name:      " Ana ",
		Email:     "ana@example.com",
		Phone:     "+55 11 99999-0000",
		Message:   "Is it still available?",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadNew, lead.Status)
	assert.Equal(t, "Ana", lead.Name)
	assert.NotZero(t, lead.ID)

	_, err = create.Execute(ctx, domain.Lead{Name: "Ana", Email: "not-an-email", Phone: "123456"})
	require.ErrorIs(t, err, domain.ErrInvalidLead)

	_, err = create.Execute(ctx, domain.Lead{ListingID: ptr(int64(404)), Name: "Ana", Email: "a@b.co", Phone: "123456"})
	require.ErrorIs(t, err, domain.ErrListingNotFound)

	require.NoError(t, NewUpdateLeadStatusUseCase(leads).Execute(ctx, lead.ID, domain.LeadAnswered))
	require.ErrorIs(t, NewUpdateLeadStatusUseCase(leads).Execute(ctx, lead.ID, "closed"), domain.ErrInvalidLeadStatus)

	page, err := NewListLeadsUseCase(leads).Execute(ctx, domain.LeadFilter{Status: domain.LeadAnswered})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, DefaultLeadsPageSize, page.PageSize)

	require.NoError(t, NewDeleteLeadUseCase(leads).Execute(ctx, lead.ID))
	require.ErrorIs(t, NewDeleteLeadUseCase(leads).Execute(ctx, lead.ID), domain.ErrLeadNotFound)
}
