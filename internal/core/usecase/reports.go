package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/analytics"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type ViewsReportUseCase struct {
	analytics port.AnalyticsPort
}

func NewViewsReportUseCase(analytics port.AnalyticsPort) *ViewsReportUseCase {
	return &ViewsReportUseCase{analytics: analytics}
}

func (uc *ViewsReportUseCase) Execute(ctx context.Context) (*domain.ViewsReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "ViewsReport"})
	ucLogger.Info("Use case started", nil)

	top, err := uc.analytics.TopViewed(ctx, domain.ViewsReportLimit)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	report := analytics.ViewsReport(top)
	ucLogger.Info("Use case finished successfully", port.Fields{"total_views": report.TotalViews})
	return &report, nil
}

type LeadConversionReportUseCase struct {
	analytics port.AnalyticsPort
}

func NewLeadConversionReportUseCase(analytics port.AnalyticsPort) *LeadConversionReportUseCase {
	return &LeadConversionReportUseCase{analytics: analytics}
}

func (uc *LeadConversionReportUseCase) Execute(ctx context.Context) (*domain.LeadConversionReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "LeadConversionReport"})
	ucLogger.Info("Use case started", nil)

	byStatus, perListing, err := uc.analytics.LeadCounts(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	report := analytics.LeadConversionReport(byStatus, perListing)
	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_leads":     report.TotalLeads,
		"conversion_rate": report.ConversionRate,
	})
	return &report, nil
}

type NeighborhoodReportUseCase struct {
	analytics port.AnalyticsPort
}

func NewNeighborhoodReportUseCase(analytics port.AnalyticsPort) *NeighborhoodReportUseCase {
	return &NeighborhoodReportUseCase{analytics: analytics}
}

func (uc *NeighborhoodReportUseCase) Execute(ctx context.Context) (*domain.NeighborhoodReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "NeighborhoodReport"})
	ucLogger.Info("Use case started", nil)

	rows, err := uc.analytics.NeighborhoodTotals(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	report := analytics.NeighborhoodReport(rows)
	ucLogger.Info("Use case finished successfully", port.Fields{"neighborhoods": report.TotalNeighborhoods})
	return &report, nil
}

type RevenueReportUseCase struct {
	analytics port.AnalyticsPort
}

func NewRevenueReportUseCase(analytics port.AnalyticsPort) *RevenueReportUseCase {
	return &RevenueReportUseCase{analytics: analytics}
}

func (uc *RevenueReportUseCase) Execute(ctx context.Context) (*domain.RevenueReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "RevenueReport"})
	ucLogger.Info("Use case started", nil)

	totals, err := uc.analytics.StatusTotals(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	report := analytics.RevenueReport(totals)
	ucLogger.Info("Use case finished successfully", port.Fields{"occupancy_rate": report.OccupancyRate})
	return &report, nil
}
