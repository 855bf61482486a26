package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"listing-service/internal/adapters/cache"
	"listing-service/internal/adapters/memory"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router http.Handler
	store  *memory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := memory.LoadSeedFile("../memory/testdata/seed.json")
	require.NoError(t, err)

	listingCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = listingCache.Close() })

	listings := store.Listings()
	favorites := store.Favorites()
	leads := store.Leads()
	reviews := store.Reviews()
	analytics := store.Analytics()
	notifier := usecase.NewListingChangeNotifier(listingCache, nil, "test-replica")

	handlers := Handlers{
		Search: NewSearchHandler(
			usecase.NewProximitySearchUseCase(listings, listingCache),
			usecase.NewStatusSearchUseCase(listings, listingCache),
			usecase.NewAdvancedSearchUseCase(listings),
			usecase.NewTextSearchUseCase(listings),
			usecase.NewSuggestionsUseCase(listings),
			usecase.NewAvailableFiltersUseCase(listings),
		),
		Listings: NewListingHandler(
			usecase.NewGetListingDetailsUseCase(listings, listings),
			usecase.NewRecentListingsUseCase(listings, listingCache),
			usecase.NewNeighborhoodListingsUseCase(listings, listingCache),
			usecase.NewSimilarListingsUseCase(listings),
		),
		Favorites: NewFavoritesHandler(
			usecase.NewAddToFavoritesUseCase(listings, favorites),
			usecase.NewRemoveFromFavoritesUseCase(favorites),
			usecase.NewGetUserFavoritesUseCase(favorites),
			usecase.NewIsFavoriteUseCase(favorites),
		),
		Leads: NewLeadHandler(
			usecase.NewCreateLeadUseCase(listings, leads),
			usecase.NewListLeadsUseCase(leads),
			usecase.NewUpdateLeadStatusUseCase(leads),
			usecase.NewDeleteLeadUseCase(leads),
		),
		Admin: NewAdminHandler(
			usecase.NewCreateListingUseCase(listings, notifier),
			usecase.NewUpdateListingUseCase(listings, notifier),
			usecase.NewDeleteListingUseCase(listings, notifier),
			usecase.NewConfigurePromotionUseCase(listings, notifier),
			usecase.NewDashboardStatsUseCase(store),
		),
		Reports: NewReportsHandler(
			usecase.NewViewsReportUseCase(analytics),
			usecase.NewLeadConversionReportUseCase(analytics),
			usecase.NewNeighborhoodReportUseCase(analytics),
			usecase.NewRevenueReportUseCase(analytics),
		),
		Reviews: NewReviewHandler(
			usecase.NewUpsertReviewUseCase(listings, reviews),
			usecase.NewListListingReviewsUseCase(reviews),
			usecase.NewReviewStatsUseCase(reviews),
			usecase.NewGetUserReviewsUseCase(reviews),
			usecase.NewDeleteReviewUseCase(reviews),
		),
	}

	return &testEnv{
		router: NewRouter(handlers, nil, contextkeys.NoopLogger()),
		store:  store,
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func adminHeaders() map[string]string {
	return map[string]string{headerUserRole: roleAdmin, headerUserID: uuid.NewString()}
}

func TestNearby(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/listings/nearby?latitude=-23.5747&longitude=-46.6433&radiusKm=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[[]NearbyListingResponse](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.InDelta(t, 0, got[0].DistanceKm, 1e-9)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Greater(t, got[1].DistanceKm, 1.0)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestNearby_Validation(t *testing.T) {
	env := newTestEnv(t)

	for name, target := range map[string]string{
		"missing longitude": "/api/v1/listings/nearby?latitude=10",
		"malformed":         "/api/v1/listings/nearby?latitude=abc&longitude=1",
		"latitude range":    "/api/v1/listings/nearby?latitude=91&longitude=1",
		"longitude range":   "/api/v1/listings/nearby?latitude=1&longitude=-181",
		"negative radius":   "/api/v1/listings/nearby?latitude=1&longitude=1&radiusKm=-1",
		"nan latitude":      "/api/v1/listings/nearby?latitude=NaN&longitude=139.76",
		"infinite radius":   "/api/v1/listings/nearby?latitude=1&longitude=1&radiusKm=Inf",
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, target, nil, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestNearby_RadiusDefaultsOnlyWhenAbsent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/listings/nearby?latitude=-23.5747&longitude=-46.6433&radiusKm=0", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exact := decode[[]NearbyListingResponse](t, rec)
	require.Len(t, exact, 1)
	assert.Equal(t, int64(1), exact[0].ID)

	rec = env.do(t, http.MethodGet, "/api/v1/listings/nearby?latitude=-23.5747&longitude=-46.6433", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, len(decode[[]NearbyListingResponse](t, rec)), 2)

	rec = env.do(t, http.MethodGet, "/api/v1/search?latitude=-23.5747&longitude=-46.6433&radiusKm=0", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[PaginatedListingsResponse](t, rec)
	assert.Equal(t, 1, page.Total)
}

func TestByStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/listings/status/promotion", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]ListingResponse](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, 15, got[0].Discount)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/listings/status/sold", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/listings/status/available?limit=0", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/listings/status/available?limit=x", nil, nil).Code)
}

func TestAdvancedSearch(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/search?city=paulo&priceMax=3000", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[PaginatedListingsResponse](t, rec)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 12, page.PageSize)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(2), page.Data[0].ID)
	assert.Nil(t, page.Data[0].DistanceKm)

	rec = env.do(t, http.MethodGet, "/api/v1/search?latitude=-23.5747&longitude=-46.6433&radiusKm=5&amenityIds=2,3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[PaginatedListingsResponse](t, rec)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(1), page.Data[0].ID)
	require.NotNil(t, page.Data[0].DistanceKm)

	rec = env.do(t, http.MethodGet, "/api/v1/search?page=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[PaginatedListingsResponse](t, rec)
	assert.Equal(t, 3, page.Total)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
}

func TestAdvancedSearch_Validation(t *testing.T) {
	env := newTestEnv(t)

	for name, query := range map[string]string{
		"page zero":        "page=0",
		"page size":        "pageSize=51",
		"one coordinate":   "latitude=10",
		"unknown status":   "status=sold",
		"bad price":        "priceMin=cheap",
		"bad amenity list": "amenityIds=1,x",
		"inverted price":   "priceMin=10&priceMax=5",
		"nan radius":       "latitude=35.68&longitude=139.76&radiusKm=NaN",
		"infinite price":   "priceMax=+Inf",
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/v1/search?"+query, nil, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestTextSearchSuggestionsAndFilters(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/search/text?term=praia", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[PaginatedListingsResponse](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(3), page.Data[0].ID)

	rec = env.do(t, http.MethodGet, "/api/v1/search/suggestions?term=PARA", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suggestions := decode[SuggestionsResponse](t, rec)
	assert.Equal(t, []string{"Paraíso"}, suggestions.Neighborhoods)
	assert.Empty(t, suggestions.Cities)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/search/suggestions?term=", nil, nil).Code)

	rec = env.do(t, http.MethodGet, "/api/v1/search/filters", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	options := decode[FilterOptionsResponse](t, rec)
	assert.Equal(t, 2500.0, options.PriceMin)
	assert.Equal(t, 9800.0, options.PriceMax)
	assert.Len(t, options.PriceDistribution, 10)
	assert.Len(t, options.Amenities, 3)
}

func TestListingDetailsAndViews(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/listings/1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	details := decode[ListingDetailsResponse](t, rec)
	assert.Equal(t, "Apartamento perto do Ibirapuera", details.Title)
	assert.Len(t, details.Amenities, 2)
	assert.Equal(t, int64(1), details.Views)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/listings/4", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/listings/999", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/listings/abc", nil, nil).Code)
}

func TestRecentNeighborhoodSimilar(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/listings/recent?limit=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recent := decode[[]ListingResponse](t, rec)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(3), recent[0].ID)
	assert.Equal(t, int64(2), recent[1].ID)

	rec = env.do(t, http.MethodGet, "/api/v1/listings/neighborhood?city=S%C3%A3o+Paulo&neighborhood=Para%C3%ADso", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inNeighborhood := decode[[]ListingResponse](t, rec)
	require.Len(t, inNeighborhood, 1)
	assert.Equal(t, int64(1), inNeighborhood[0].ID)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/listings/neighborhood?city=Rio", nil, nil).Code)

	rec = env.do(t, http.MethodGet, "/api/v1/listings/3/similar", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]ListingResponse](t, rec))
}

func TestFavoritesFlow(t *testing.T) {
	env := newTestEnv(t)
	user := map[string]string{headerUserID: uuid.NewString()}

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/v1/favorites", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/v1/favorites", nil, map[string]string{headerUserID: "42"}).Code)

	assert.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/favorites/2", nil, user).Code)
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/v1/favorites/2", nil, user).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/v1/favorites/4", nil, user).Code)

	rec := env.do(t, http.MethodGet, "/api/v1/favorites/2", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[IsFavoriteResponse](t, rec).IsFavorite)

	rec = env.do(t, http.MethodGet, "/api/v1/favorites", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]FavoriteResponse](t, rec)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Listing)
	assert.Equal(t, int64(2), list[0].Listing.ID)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/v1/favorites/2", nil, user).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/v1/favorites/2", nil, user).Code)

	rec = env.do(t, http.MethodGet, "/api/v1/favorites/2", nil, user)
	assert.False(t, decode[IsFavoriteResponse](t, rec).IsFavorite)
}

func TestLeadsFlow(t *testing.T) {
	env := newTestEnv(t)
	listingID := int64(1)

	rec := env.do(t, http.MethodPost, "/api/v1/leads", CreateLeadRequest{
		ListingID: &listingID,
		Name:      "Maria",
		Email:     "maria@example.com",
		Phone:     "+55 11 99999-0000",
		Message:   "Ainda disponível?",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	lead := decode[LeadResponse](t, rec)
	assert.Equal(t, "new", lead.Status)

	rec = env.do(t, http.MethodPost, "/api/v1/leads", CreateLeadRequest{Name: "X", Email: "not-an-email", Phone: "123456"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/v1/admin/leads", nil, nil).Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/leads?status=new", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[PaginatedLeadsResponse](t, rec)
	assert.Equal(t, 1, page.Total)

	target := "/api/v1/admin/leads/" + jsonNumber(lead.ID)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, target, UpdateLeadStatusRequest{Status: "lost"}, adminHeaders()).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodPatch, target, UpdateLeadStatusRequest{Status: "answered"}, adminHeaders()).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, target, nil, adminHeaders()).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, target, nil, adminHeaders()).Code)
}

func jsonNumber(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}

func TestAdminListingLifecycle(t *testing.T) {
	env := newTestEnv(t)

	// прогреваем кеш по статусу, запись должна его сбросить
	rec := env.do(t, http.MethodGet, "/api/v1/listings/status/available", nil, nil)
	require.Len(t, decode[[]ListingResponse](t, rec), 1)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/listings", CreateListingRequest{
		Title:        "Cobertura na Avenida Paulista",
		Price:        12000,
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		Latitude:     -23.5614,
		Longitude:    -46.6559,
		Status:       "Available",
		AmenityIDs:   []int64{1},
	}, adminHeaders())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[ListingResponse](t, rec)
	assert.Contains(t, created.Slug, "cobertura-na-avenida-paulista-")
	assert.Equal(t, "available", created.Status)

	rec = env.do(t, http.MethodGet, "/api/v1/listings/status/available", nil, nil)
	assert.Len(t, decode[[]ListingResponse](t, rec), 2)

	target := "/api/v1/admin/listings/" + jsonNumber(created.ID)
	rec = env.do(t, http.MethodPatch, target, map[string]interface{}{"price": 11000}, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 11000.0, decode[ListingResponse](t, rec).Price)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, target, map[string]interface{}{"unknown": 1}, adminHeaders()).Code)

	rec = env.do(t, http.MethodPut, target+"/promotion", PromotionRequest{Status: "promotion", Discount: 20}, adminHeaders())
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodPut, target+"/promotion", PromotionRequest{Status: "promotion", Discount: 120}, adminHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/listings/status/promotion", nil, nil)
	assert.Len(t, decode[[]ListingResponse](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/stats", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[DashboardStatsResponse](t, rec)
	assert.Equal(t, 4, stats.ActiveListings)
	assert.Equal(t, 2, stats.ByStatus["promotion"])

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, target, nil, adminHeaders()).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/listings/"+jsonNumber(created.ID), nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, target, nil, adminHeaders()).Code)
}

func TestAdminRequiresRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/admin/stats", nil, map[string]string{headerUserRole: "user"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin role is required", decode[ErrorResponse](t, rec).Error)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
