package memory

import (
	"context"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/search"
)

type LeadRepository struct {
	store *Store
}

func (r *LeadRepository) Create(_ context.Context, lead domain.Lead) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextLeadID++
	lead.ID = r.store.nextLeadID
	r.store.leads = append(r.store.leads, lead)
	return lead.ID, nil
}

// List - от новых к старым
func (r *LeadRepository) List(_ context.Context, filter domain.LeadFilter) (*domain.PaginatedLeads, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]domain.Lead, 0)
	for i := len(r.store.leads) - 1; i >= 0; i-- {
		lead := r.store.leads[i]
		if filter.Status == "" || lead.Status == filter.Status {
			matched = append(matched, lead)
		}
	}

	result := &domain.PaginatedLeads{
		Leads:      []domain.Lead{},
		Total:      len(matched),
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: search.TotalPages(len(matched), filter.PageSize),
	}
	offset := (filter.Page - 1) * filter.PageSize
	if offset < 0 || offset >= len(matched) {
		return result, nil
	}
	end := offset + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	result.Leads = append(result.Leads, matched[offset:end]...)
	return result, nil
}

func (r *LeadRepository) UpdateStatus(_ context.Context, id int64, status domain.LeadStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.leads {
		if r.store.leads[i].ID == id {
			r.store.leads[i].Status = status
			r.store.leads[i].UpdatedAt = r.store.now().UTC()
			return nil
		}
	}
	return domain.ErrLeadNotFound
}

func (r *LeadRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.leads {
		if r.store.leads[i].ID == id {
			r.store.leads = append(r.store.leads[:i], r.store.leads[i+1:]...)
			return nil
		}
	}
	return domain.ErrLeadNotFound
}
