package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type CreateLeadUseCase interface {
	Execute(ctx context.Context, lead domain.Lead) (*domain.Lead, error)
}

type ListLeadsUseCase interface {
	Execute(ctx context.Context, filter domain.LeadFilter) (*domain.PaginatedLeads, error)
}

type UpdateLeadStatusUseCase interface {
	Execute(ctx context.Context, id int64, status domain.LeadStatus) error
}

type DeleteLeadUseCase interface {
	Execute(ctx context.Context, id int64) error
}
