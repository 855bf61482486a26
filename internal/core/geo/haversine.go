// Package geo - расстояния на сфере и геохеш-ячейки для поиска рядом.
package geo

import "math"

const (
	// EarthRadiusKm - средний радиус Земли
	EarthRadiusKm = 6371.0
	// MaxNearbyResults - потолок выдачи поиска рядом
	MaxNearbyResults = 100
)

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine - расстояние по большому кругу в километрах
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// погрешность округления может вывести a за [0, 1]
	a = math.Max(0, math.Min(1, a))

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

// Box - прямоугольник в градусах для предварительного отбора в SQL
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// boxPaddingDeg расширяет рамку примерно на 10 м, чтобы точки на самой границе
// радиуса не терялись из-за округления
const boxPaddingDeg = 0.0001

// BoundingBox возвращает рамку, которая гарантированно содержит круг радиуса radiusKm.
// У полюсов и через антимеридиан рамка раскрывается на весь диапазон долгот.
func BoundingBox(lat, lng, radiusKm float64) Box {
	angular := radiusKm / EarthRadiusKm
	latDelta := angular*180/math.Pi + boxPaddingDeg

	box := Box{
		MinLat: math.Max(-90, lat-latDelta),
		MaxLat: math.Min(90, lat+latDelta),
		MinLng: -180,
		MaxLng: 180,
	}

	if box.MinLat <= -90 || box.MaxLat >= 90 || angular >= math.Pi/2 {
		return box
	}

	// наибольшее отклонение по долготе для сферической шапки
	ratio := math.Sin(angular) / math.Cos(toRadians(lat))
	if ratio >= 1 {
		return box
	}
	lngDelta := math.Asin(ratio)*180/math.Pi + boxPaddingDeg
	if lng-lngDelta < -180 || lng+lngDelta > 180 {
		return box
	}

	box.MinLng = lng - lngDelta
	box.MaxLng = lng + lngDelta
	return box
}

// Contains - попадает ли точка в рамку
func (b Box) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}
