package geo

import (
	"math"
	"testing"

	"listing-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine_TokyoStationToShibuya(t *testing.T) {
	d := Haversine(35.6812, 139.7671, 35.6580, 139.7016)
	assert.InDelta(t, 6.5, d, 0.1)
}

func TestHaversine_SymmetricAndZero(t *testing.T) {
	assert.InDelta(t, 0, Haversine(10, 20, 10, 20), 1e-9)
	assert.InDelta(t,
		Haversine(-23.55, -46.63, 40.71, -74.0),
		Haversine(40.71, -74.0, -23.55, -46.63),
		1e-9)
	// четверть меридиана
	assert.InDelta(t, 10007.5, Haversine(0, 0, 90, 0), 1)
}

func listingAt(id int64, lat, lng float64) domain.Listing {
	return domain.Listing{ID: id, Latitude: lat, Longitude: lng, Active: true}
}

func TestWithinRadius_BoundaryIsInclusive(t *testing.T) {
	origin := listingAt(0, 35.6812, 139.7671)
	target := listingAt(1, 35.6580, 139.7016)
	radius := Haversine(origin.Latitude, origin.Longitude, target.Latitude, target.Longitude)

	got := WithinRadius([]domain.Listing{target}, origin.Latitude, origin.Longitude, radius, MaxNearbyResults)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].Listing.ID)

	got = WithinRadius([]domain.Listing{target}, origin.Latitude, origin.Longitude, radius-1e-6, MaxNearbyResults)
	assert.Empty(t, got)
}

func TestWithinRadius_OrdersByDistanceThenID(t *testing.T) {
	candidates := []domain.Listing{
		listingAt(7, 35.70, 139.70),
		listingAt(3, 35.68, 139.70),
		listingAt(5, 35.68, 139.70), // на том же месте, что и 3
		listingAt(1, 35.69, 139.70),
	}
	inactive := listingAt(2, 35.69, 139.70)
	inactive.Active = false
	candidates = append(candidates, inactive)

	got := WithinRadius(candidates, 35.68, 139.70, 50, 0)
	ids := make([]int64, 0, len(got))
	for _, n := range got {
		ids = append(ids, n.Listing.ID)
	}
	assert.Equal(t, []int64{3, 5, 1, 7}, ids)
}

func TestWithinRadius_Cap(t *testing.T) {
	candidates := make([]domain.Listing, 0, 150)
	for i := 0; i < 150; i++ {
		candidates = append(candidates, listingAt(int64(i+1), 35.68, 139.70))
	}
	got := WithinRadius(candidates, 35.68, 139.70, 1, MaxNearbyResults)
	require.Len(t, got, MaxNearbyResults)
	assert.Equal(t, int64(100), got[99].Listing.ID)
}

func TestBoundingBox_ContainsCircle(t *testing.T) {
	lat, lng, radius := 35.68, 139.76, 10.0
	box := BoundingBox(lat, lng, radius)

	// точки ровно на радиусе по сторонам света
	north := lat + radius/EarthRadiusKm*180/3.141592653589793
	assert.True(t, box.Contains(north, lng))
	assert.True(t, box.Contains(lat, lng))
	assert.False(t, box.Contains(lat+1, lng))
}

// destination - точка на расстоянии distKm по азимуту bearingDeg
func destination(lat, lng, distKm, bearingDeg float64) (float64, float64) {
	d := distKm / EarthRadiusKm
	phi1, lambda1, theta := toRadians(lat), toRadians(lng), toRadians(bearingDeg)
	phi2 := math.Asin(math.Sin(phi1)*math.Cos(d) + math.Cos(phi1)*math.Sin(d)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(math.Sin(theta)*math.Sin(d)*math.Cos(phi1), math.Cos(d)-math.Sin(phi1)*math.Sin(phi2))
	return phi2 * 180 / math.Pi, lambda2 * 180 / math.Pi
}

func TestBoundingBox_NeverExcludesCirclePoints(t *testing.T) {
	cases := []struct{ lat, lng, radius float64 }{
		{35.68, 139.76, 10},
		{-23.55, -46.63, 50},
		{60, 10, 2000},
		{70, -20, 500},
	}
	for _, c := range cases {
		box := BoundingBox(c.lat, c.lng, c.radius)
		for bearing := 0.0; bearing < 360; bearing += 5 {
			pLat, pLng := destination(c.lat, c.lng, c.radius, bearing)
			assert.Truef(t, box.Contains(pLat, pLng), "lat=%v lng=%v r=%v bearing=%v", c.lat, c.lng, c.radius, bearing)
		}
	}
}

func TestBoundingBox_PolesAndAntimeridian(t *testing.T) {
	box := BoundingBox(89.99, 0, 50)
	assert.Equal(t, -180.0, box.MinLng)
	assert.Equal(t, 180.0, box.MaxLng)

	box = BoundingBox(0, 179.99, 20)
	assert.Equal(t, -180.0, box.MinLng)
	assert.Equal(t, 180.0, box.MaxLng)
}

func TestCell(t *testing.T) {
	hash := StoredCell(35.6812, 139.7671)
	assert.Len(t, hash, StoredCellPrecision)
	assert.Equal(t, hash[:SimilarCellPrecision], CellPrefix(hash, SimilarCellPrecision))
	assert.Equal(t, "ab", CellPrefix("ab", 5))
	assert.Len(t, CellWithNeighbors(CellPrefix(hash, 5)), 9)
	assert.Nil(t, CellWithNeighbors(""))
}
