package analytics

import (
	"sort"

	"listing-service/internal/core/domain"
)

// Агрегаты по срезу в памяти. Учитываются только активные объявления,
// как и в SQL-версии.

// TopViewed - самые просматриваемые, при равенстве меньший id первым
func TopViewed(listings []domain.Listing, limit int) []domain.ViewedListing {
	active := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Active {
			active = append(active, l)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Views != active[j].Views {
			return active[i].Views > active[j].Views
		}
		return active[i].ID < active[j].ID
	})
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}

	top := make([]domain.ViewedListing, len(active))
	for i, l := range active {
		top[i] = domain.ViewedListing{ID: l.ID, Title: l.Title, Views: l.Views, Price: l.Price, Status: l.Status}
	}
	return top
}

func StatusTotals(listings []domain.Listing) map[domain.ListingStatus]domain.GroupTotals {
	totals := make(map[domain.ListingStatus]domain.GroupTotals)
	for _, l := range listings {
		if !l.Active {
			continue
		}
		t := totals[l.Status]
		t.Count++
		t.Views += l.Views
		t.PriceSum += l.Price
		totals[l.Status] = t
	}
	return totals
}

func NeighborhoodRows(listings []domain.Listing) []domain.NeighborhoodTotals {
	type key struct {
		city, neighborhood string
		status             domain.ListingStatus
	}
	grouped := make(map[key]domain.GroupTotals)
	var order []key
	for _, l := range listings {
		if !l.Active {
			continue
		}
		k := key{l.City, l.Neighborhood, l.Status}
		t, ok := grouped[k]
		if !ok {
			order = append(order, k)
		}
		t.Count++
		t.Views += l.Views
		t.PriceSum += l.Price
		grouped[k] = t
	}

	rows := make([]domain.NeighborhoodTotals, len(order))
	for i, k := range order {
		rows[i] = domain.NeighborhoodTotals{City: k.city, Neighborhood: k.neighborhood, Status: k.status, Totals: grouped[k]}
	}
	return rows
}

// LeadCounts - заявки по статусам и по объявлениям. Заявки без объявления в разбивку не попадают.
func LeadCounts(leads []domain.Lead) (map[domain.LeadStatus]int, map[int64]int) {
	byStatus := make(map[domain.LeadStatus]int, len(domain.AllLeadStatuses))
	perListing := make(map[int64]int)
	for _, lead := range leads {
		byStatus[lead.Status]++
		if lead.ListingID != nil {
			perListing[*lead.ListingID]++
		}
	}
	return byStatus, perListing
}
