package memory

import (
	"context"

	"listing-service/internal/core/analytics"
	"listing-service/internal/core/domain"
)

type AnalyticsRepository struct {
	store *Store
}

func (r *AnalyticsRepository) TopViewed(_ context.Context, limit int) ([]domain.ViewedListing, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return analytics.TopViewed(r.store.listings, limit), nil
}

func (r *AnalyticsRepository) StatusTotals(_ context.Context) (map[domain.ListingStatus]domain.GroupTotals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return analytics.StatusTotals(r.store.listings), nil
}

func (r *AnalyticsRepository) NeighborhoodTotals(_ context.Context) ([]domain.NeighborhoodTotals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return analytics.NeighborhoodRows(r.store.listings), nil
}

func (r *AnalyticsRepository) LeadCounts(_ context.Context) (map[domain.LeadStatus]int, map[int64]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	byStatus, perListing := analytics.LeadCounts(r.store.leads)
	return byStatus, perListing, nil
}
