package domain

import "math"

// ViewsReportLimit - сколько объявлений попадает в отчет по просмотрам
const ViewsReportLimit = 10

// GroupTotals - агрегаты по группе активных объявлений
type GroupTotals struct {
	Count    int
	Views    int64
	PriceSum float64
}

// NeighborhoodTotals - агрегаты района в разрезе статуса
type NeighborhoodTotals struct {
	City         string
	Neighborhood string
	Status       ListingStatus
	Totals       GroupTotals
}

// ViewedListing - строка отчета по просмотрам
type ViewedListing struct {
	ID     int64
	Title  string
	Views  int64
	Price  float64
	Status ListingStatus
}

// ViewsReport - самые просматриваемые объявления. Сумма и среднее считаются по верхушке.
type ViewsReport struct {
	TopListings  []ViewedListing
	TotalViews   int64
	AverageViews int64
}

// LeadConversionReport - заявки по статусам и доля отвеченных
type LeadConversionReport struct {
	TotalLeads      int
	ByStatus        map[LeadStatus]int
	ConversionRate  int // процент отвеченных, округленный
	LeadsPerListing map[int64]int
}

// NeighborhoodPerformance - показатели одного района
type NeighborhoodPerformance struct {
	City         string
	Neighborhood string
	Total        int
	Views        int64
	AverageRent  float64
	ByStatus     map[ListingStatus]int
}

type NeighborhoodReport struct {
	Neighborhoods      []NeighborhoodPerformance
	TotalNeighborhoods int
}

// RevenueReport - месячная аренда по статусам и заполняемость
type RevenueReport struct {
	TotalRent     float64
	AvailableRent float64
	RentedRent    float64
	OccupancyRate int
	Rented        int
	NotRented     int
}

// Percent - доля part от total в целых процентах, 0 для пустого total
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
