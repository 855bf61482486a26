package usecases_port

import (
	"context"

	"listing-service/internal/core/domain"
)

type ViewsReportUseCase interface {
	Execute(ctx context.Context) (*domain.ViewsReport, error)
}

type LeadConversionReportUseCase interface {
	Execute(ctx context.Context) (*domain.LeadConversionReport, error)
}

type NeighborhoodReportUseCase interface {
	Execute(ctx context.Context) (*domain.NeighborhoodReport, error)
}

type RevenueReportUseCase interface {
	Execute(ctx context.Context) (*domain.RevenueReport, error)
}
