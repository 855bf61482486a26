package analytics

import (
	"testing"

	"listing-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingsFixture() []domain.Listing {
	return []domain.Listing{
		{ID: 1, Title: "A", City: "São Paulo", Neighborhood: "Paraíso", Price: 4200, Status: domain.StatusAvailable, Views: 10, Active: true},
		{ID: 2, Title: "B", City: "São Paulo", Neighborhood: "Paraíso", Price: 3001, Status: domain.StatusRented, Views: 5, Active: true},
		{ID: 3, Title: "C", City: "Rio de Janeiro", Neighborhood: "Copacabana", Price: 9800, Status: domain.StatusUnmissable, Views: 10, Active: true},
		{ID: 4, Title: "D", City: "São Paulo", Neighborhood: "Vila Mariana", Price: 2500, Status: domain.StatusPromotion, Views: 1, Active: true},
		{ID: 5, Title: "E", City: "São Paulo", Neighborhood: "Paraíso", Price: 1800, Status: domain.StatusRented, Views: 99, Active: false},
	}
}

func TestViewsReport(t *testing.T) {
	top := TopViewed(listingsFixture(), domain.ViewsReportLimit)
	require.Len(t, top, 4)
	assert.Equal(t, []int64{1, 3, 2, 4}, []int64{top[0].ID, top[1].ID, top[2].ID, top[3].ID})

	report := ViewsReport(top)
	assert.Equal(t, int64(26), report.TotalViews)
	assert.Equal(t, int64(7), report.AverageViews, "26/4 rounds to 7")

	limited := TopViewed(listingsFixture(), 2)
	assert.Len(t, limited, 2)

	empty := ViewsReport(nil)
	assert.NotNil(t, empty.TopListings)
	assert.Zero(t, empty.AverageViews)
}

func TestLeadConversionReport(t *testing.T) {
	one, two := int64(1), int64(2)
	byStatus, perListing := LeadCounts([]domain.Lead{
		{ListingID: &one, Status: domain.LeadNew},
		{ListingID: &one, Status: domain.LeadAnswered},
		{ListingID: &two, Status: domain.LeadAnswered},
		{Status: domain.LeadDiscarded},
		{Status: domain.LeadNew},
		{Status: domain.LeadNew},
	})

	report := LeadConversionReport(byStatus, perListing)
	assert.Equal(t, 6, report.TotalLeads)
	assert.Equal(t, 3, report.ByStatus[domain.LeadNew])
	assert.Equal(t, 2, report.ByStatus[domain.LeadAnswered])
	assert.Equal(t, 1, report.ByStatus[domain.LeadDiscarded])
	assert.Equal(t, 33, report.ConversionRate)
	assert.Equal(t, map[int64]int{1: 2, 2: 1}, report.LeadsPerListing)

	empty := LeadConversionReport(nil, nil)
	assert.Zero(t, empty.ConversionRate)
	assert.NotNil(t, empty.LeadsPerListing)
	assert.Contains(t, empty.ByStatus, domain.LeadDiscarded)
}

func TestNeighborhoodReport(t *testing.T) {
	report := NeighborhoodReport(NeighborhoodRows(listingsFixture()))
	require.Equal(t, 3, report.TotalNeighborhoods)

	names := make([]string, len(report.Neighborhoods))
	for i, n := range report.Neighborhoods {
		names[i] = n.City + "/" + n.Neighborhood
	}
	assert.Equal(t, []string{"Rio de Janeiro/Copacabana", "São Paulo/Paraíso", "São Paulo/Vila Mariana"}, names)

	paraiso := report.Neighborhoods[1]
	assert.Equal(t, 2, paraiso.Total)
	assert.Equal(t, int64(15), paraiso.Views)
	assert.Equal(t, float64(3601), paraiso.AverageRent, "(4200+3001)/2 rounded")
	assert.Equal(t, 1, paraiso.ByStatus[domain.StatusAvailable])
	assert.Equal(t, 1, paraiso.ByStatus[domain.StatusRented])
	assert.Equal(t, 0, paraiso.ByStatus[domain.StatusPromotion])

	assert.Empty(t, NeighborhoodReport(nil).Neighborhoods)
}

func TestRevenueReport(t *testing.T) {
	report := RevenueReport(StatusTotals(listingsFixture()))
	assert.Equal(t, float64(19501), report.TotalRent)
	assert.Equal(t, float64(4200), report.AvailableRent)
	assert.Equal(t, float64(3001), report.RentedRent)
	assert.Equal(t, 1, report.Rented)
	assert.Equal(t, 3, report.NotRented)
	assert.Equal(t, 25, report.OccupancyRate)

	empty := RevenueReport(nil)
	assert.Zero(t, empty.OccupancyRate)
	assert.Zero(t, empty.NotRented)
}
