package port

import (
	"context"

	"listing-service/internal/core/domain"
)

// LeadRepositoryPort - заявки из формы обратной связи
type LeadRepositoryPort interface {
	Create(ctx context.Context, lead domain.Lead) (int64, error)
	List(ctx context.Context, filter domain.LeadFilter) (*domain.PaginatedLeads, error)
	UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus) error
	Delete(ctx context.Context, id int64) error
}
