// Package analytics собирает отчеты админки из агрегатов хранилища.
// Хранилища отдают сырые суммы, округление и производные показатели считаются здесь.
package analytics

import (
	"math"
	"sort"

	"listing-service/internal/core/domain"
)

// ViewsReport - сумма и среднее по верхушке самых просматриваемых
func ViewsReport(top []domain.ViewedListing) domain.ViewsReport {
	report := domain.ViewsReport{TopListings: top}
	if report.TopListings == nil {
		report.TopListings = []domain.ViewedListing{}
	}
	for _, l := range top {
		report.TotalViews += l.Views
	}
	if len(top) > 0 {
		report.AverageViews = int64(math.Round(float64(report.TotalViews) / float64(len(top))))
	}
	return report
}

// LeadConversionReport - конверсия это доля отвеченных заявок от всех
func LeadConversionReport(byStatus map[domain.LeadStatus]int, perListing map[int64]int) domain.LeadConversionReport {
	report := domain.LeadConversionReport{
		ByStatus:        make(map[domain.LeadStatus]int, len(domain.AllLeadStatuses)),
		LeadsPerListing: perListing,
	}
	if report.LeadsPerListing == nil {
		report.LeadsPerListing = map[int64]int{}
	}
	for _, status := range domain.AllLeadStatuses {
		report.ByStatus[status] = byStatus[status]
		report.TotalLeads += byStatus[status]
	}
	report.ConversionRate = domain.Percent(report.ByStatus[domain.LeadAnswered], report.TotalLeads)
	return report
}

// NeighborhoodReport сворачивает строки (город, район, статус) в показатели районов.
// Районы упорядочены по городу, затем по названию.
func NeighborhoodReport(rows []domain.NeighborhoodTotals) domain.NeighborhoodReport {
	type key struct{ city, neighborhood string }
	type acc struct {
		perf     domain.NeighborhoodPerformance
		priceSum float64
	}

	groups := make(map[key]*acc)
	for _, row := range rows {
		k := key{row.City, row.Neighborhood}
		g, ok := groups[k]
		if !ok {
			g = &acc{perf: domain.NeighborhoodPerformance{
				City:         row.City,
				Neighborhood: row.Neighborhood,
				ByStatus:     make(map[domain.ListingStatus]int, len(domain.AllStatuses)),
			}}
			for _, status := range domain.AllStatuses {
				g.perf.ByStatus[status] = 0
			}
			groups[k] = g
		}
		g.perf.Total += row.Totals.Count
		g.perf.Views += row.Totals.Views
		g.perf.ByStatus[row.Status] += row.Totals.Count
		g.priceSum += row.Totals.PriceSum
	}

	report := domain.NeighborhoodReport{Neighborhoods: make([]domain.NeighborhoodPerformance, 0, len(groups))}
	for _, g := range groups {
		if g.perf.Total > 0 {
			g.perf.AverageRent = math.Round(g.priceSum / float64(g.perf.Total))
		}
		report.Neighborhoods = append(report.Neighborhoods, g.perf)
	}
	sort.Slice(report.Neighborhoods, func(i, j int) bool {
		a, b := report.Neighborhoods[i], report.Neighborhoods[j]
		if a.City != b.City {
			return a.City < b.City
		}
		return a.Neighborhood < b.Neighborhood
	})
	report.TotalNeighborhoods = len(report.Neighborhoods)
	return report
}

// RevenueReport - месячная аренда. Заполняемость это доля сданных от всех активных.
func RevenueReport(byStatus map[domain.ListingStatus]domain.GroupTotals) domain.RevenueReport {
	var report domain.RevenueReport
	total := 0
	for status, totals := range byStatus {
		report.TotalRent += totals.PriceSum
		total += totals.Count
		switch status {
		case domain.StatusAvailable:
			report.AvailableRent += totals.PriceSum
		case domain.StatusRented:
			report.RentedRent += totals.PriceSum
			report.Rented += totals.Count
		}
	}
	report.TotalRent = math.Round(report.TotalRent)
	report.AvailableRent = math.Round(report.AvailableRent)
	report.RentedRent = math.Round(report.RentedRent)
	report.NotRented = total - report.Rented
	report.OccupancyRate = domain.Percent(report.Rented, total)
	return report
}
