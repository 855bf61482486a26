// Package cachekeys строит ключи кеша из параметров запроса.
// Одинаковые (после округления) параметры всегда дают один и тот же ключ.
package cachekeys

import (
	"math"
	"strconv"
	"strings"
	"time"

	"listing-service/internal/core/domain"
)

const (
	geoPrefix          = "geo_cache"
	statusPrefix       = "ofertas"
	neighborhoodPrefix = "bairro"
	listingsPrefix     = "imoveis"
)

// Время жизни записей по категориям
const (
	GeoTTL          = 5 * time.Minute
	StatusTTL       = 10 * time.Minute
	NeighborhoodTTL = 10 * time.Minute
	RecentTTL       = 15 * time.Minute
)

// roundCoord округляет до сотых, половина округляется вверх.
// Сетка около 1.1 км на экваторе.
func roundCoord(v float64) float64 {
	r := math.Floor(v*100+0.5) / 100
	if r == 0 {
		return 0 // без "-0"
	}
	return r
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// GeoKey - ключ поиска рядом: geo_cache:{lat}:{lng}:{radius}
func GeoKey(lat, lng, radiusKm float64) string {
	return strings.Join([]string{
		geoPrefix,
		formatNumber(roundCoord(lat)),
		formatNumber(roundCoord(lng)),
		formatNumber(radiusKm),
	}, ":")
}

// StatusKey - ключ выборки по статусу: ofertas:{status}
func StatusKey(status domain.ListingStatus) string {
	return statusPrefix + ":" + string(status)
}

// NeighborhoodKey - ключ выборки по району: bairro:{city}:{neighborhood}
func NeighborhoodKey(city, neighborhood string) string {
	return neighborhoodPrefix + ":" + city + ":" + neighborhood
}

// RecentKey - ключ свежих объявлений: imoveis:recentes:{limit}
func RecentKey(limit int) string {
	return listingsPrefix + ":recentes:" + strconv.Itoa(limit)
}

// ListingInvalidationPatterns - все шаблоны, которые устаревают после записи объявления
func ListingInvalidationPatterns() []string {
	return []string{
		listingsPrefix + ":*",
		statusPrefix + ":*",
		geoPrefix + ":*",
		neighborhoodPrefix + ":*",
	}
}
