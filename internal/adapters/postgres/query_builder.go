package postgres_adapter

import (
	"fmt"
	"strings"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: []string{"l.active = TRUE"},
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// AddFloatFilter - границы включаются, nil означает "без ограничения"
func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

// AddBox - предварительный отбор по рамке, точное расстояние досчитывается в Go
func (qb *queryBuilder) AddBox(box geo.Box) {
	qb.addCondition("%s >= $%d", "l.latitude", box.MinLat)
	qb.addCondition("%s <= $%d", "l.latitude", box.MaxLat)
	if box.MinLng > -180 || box.MaxLng < 180 {
		qb.addCondition("%s >= $%d", "l.longitude", box.MinLng)
		qb.addCondition("%s <= $%d", "l.longitude", box.MaxLng)
	}
}

// AddContains - подстрока без учета регистра
func (qb *queryBuilder) AddContains(fieldName, value string) {
	qb.addCondition("%s ILIKE $%d", fieldName, "%"+escapeLike(value)+"%")
}

// AddAnyContains - подстрока хотя бы в одном из полей
func (qb *queryBuilder) AddAnyContains(fieldNames []string, value string) {
	parts := make([]string, 0, len(fieldNames))
	for _, f := range fieldNames {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", f, qb.argId))
	}
	qb.conditions = append(qb.conditions, "("+strings.Join(parts, " OR ")+")")
	qb.args = append(qb.args, "%"+escapeLike(value)+"%")
	qb.argId++
}

// build создает WHERE и аргументы
func (qb *queryBuilder) build() (string, []interface{}) {
	return "WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// applySearchFilter переносит фильтр в SQL. Проверка радиуса остается за вызывающим.
func applySearchFilter(filter domain.SearchFilter) (string, []interface{}) {
	qb := newQueryBuilder()

	if filter.Neighborhood != "" {
		qb.AddContains("l.neighborhood", filter.Neighborhood)
	}
	if filter.City != "" {
		qb.AddContains("l.city", filter.City)
	}

	qb.AddFloatFilter("l.price", filter.PriceMin, filter.PriceMax)

	if filter.BedroomCount != nil {
		qb.addCondition("%s = $%d", "l.bedroom_count", *filter.BedroomCount)
	}
	if filter.Typology != "" {
		qb.addCondition("%s = $%d", "l.typology", filter.Typology)
	}
	if filter.Status != "" {
		qb.addCondition("%s = $%d", "l.status", string(filter.Status))
	}

	// хотя бы одно из удобств; EXISTS не размножает строки, как JOIN
	if len(filter.AmenityIDs) > 0 {
		qb.addCondition(
			"EXISTS (SELECT 1 FROM listing_amenities la WHERE la.listing_id = %s AND la.amenity_id = ANY($%d))",
			"l.id", filter.AmenityIDs,
		)
	}

	if p := filter.Proximity; p != nil {
		qb.AddBox(geo.BoundingBox(p.Latitude, p.Longitude, p.RadiusKm))
	}

	return qb.build()
}
