package search

import (
	"math"
	"sort"

	"listing-service/internal/core/domain"
)

// BuildFilterOptions считает значения для панели фильтров по активным объявлениям
func BuildFilterOptions(listings []domain.Listing, amenities []domain.Amenity) domain.FilterOptions {
	neighborhoods := map[string]struct{}{}
	cities := map[string]struct{}{}
	statuses := map[domain.ListingStatus]struct{}{}
	bedrooms := map[int]struct{}{}
	bathrooms := map[int]struct{}{}
	prices := make([]float64, 0, len(listings))

	for _, l := range listings {
		if !l.Active {
			continue
		}
		if l.Neighborhood != "" {
			neighborhoods[l.Neighborhood] = struct{}{}
		}
		if l.City != "" {
			cities[l.City] = struct{}{}
		}
		statuses[l.Status] = struct{}{}
		if l.BedroomCount > 0 {
			bedrooms[l.BedroomCount] = struct{}{}
		}
		if l.BathroomCount > 0 {
			bathrooms[l.BathroomCount] = struct{}{}
		}
		prices = append(prices, l.Price)
	}

	options := domain.FilterOptions{
		Neighborhoods: sortedStrings(neighborhoods),
		Cities:        sortedStrings(cities),
		Statuses:      []domain.ListingStatus{},
		Bedrooms:      sortedInts(bedrooms),
		Bathrooms:     sortedInts(bathrooms),
		Amenities:     amenities,
	}
	if options.Amenities == nil {
		options.Amenities = []domain.Amenity{}
	}
	for _, s := range domain.AllStatuses {
		if _, ok := statuses[s]; ok {
			options.Statuses = append(options.Statuses, s)
		}
	}

	options.PriceMin, options.PriceMax, options.PriceDistribution = PriceHistogram(prices, domain.HistogramBins)
	return options
}

// PriceHistogram раскладывает цены по bins корзинам равной ширины от min до max.
// Индекс корзины min(floor((p-min)/step), bins-1). Если все цены равны, все попадают в первую.
func PriceHistogram(prices []float64, bins int) (min, max float64, counts []int) {
	counts = make([]int, bins)
	if len(prices) == 0 || bins <= 0 {
		return 0, 0, counts
	}

	min, max = prices[0], prices[0]
	for _, p := range prices[1:] {
		min = math.Min(min, p)
		max = math.Max(max, p)
	}

	step := (max - min) / float64(bins)
	for _, p := range prices {
		idx := 0
		if step > 0 {
			idx = int(math.Floor((p - min) / step))
		}
		if idx > bins-1 {
			idx = bins - 1
		}
		counts[idx]++
	}
	return min, max, counts
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
