package search

import (
	"strings"

	"listing-service/internal/core/domain"
)

// Suggest собирает до domain.SuggestionLimit районов, городов и заголовков,
// содержащих term. Дубликаты убираются до обрезки, порядок - порядок появления.
func Suggest(listings []domain.Listing, term string) domain.Suggestions {
	f := newFolder()
	term = strings.TrimSpace(term)

	neighborhoods := newDistinct(domain.SuggestionLimit)
	cities := newDistinct(domain.SuggestionLimit)
	titles := newDistinct(domain.SuggestionLimit)

	for _, l := range listings {
		if !l.Active {
			continue
		}
		if f.contains(l.Neighborhood, term) {
			neighborhoods.add(l.Neighborhood)
		}
		if f.contains(l.City, term) {
			cities.add(l.City)
		}
		if f.contains(l.Title, term) {
			titles.add(l.Title)
		}
		if neighborhoods.full() && cities.full() && titles.full() {
			break
		}
	}

	return domain.Suggestions{
		Neighborhoods: neighborhoods.values,
		Cities:        cities.values,
		Titles:        titles.values,
	}
}

// distinct - упорядоченное множество с лимитом
type distinct struct {
	limit  int
	seen   map[string]struct{}
	values []string
}

func newDistinct(limit int) *distinct {
	return &distinct{limit: limit, seen: make(map[string]struct{}), values: []string{}}
}

func (d *distinct) add(v string) {
	if v == "" || d.full() {
		return
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.values = append(d.values, v)
}

func (d *distinct) full() bool {
	return d.limit > 0 && len(d.values) >= d.limit
}
