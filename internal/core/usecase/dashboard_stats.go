package usecase

import (
	"context"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
)

type DashboardStatsUseCase struct {
	stats port.DashboardStatsPort
}

func NewDashboardStatsUseCase(stats port.DashboardStatsPort) *DashboardStatsUseCase {
	return &DashboardStatsUseCase{stats: stats}
}

func (uc *DashboardStatsUseCase) Execute(ctx context.Context) (*domain.DashboardStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "DashboardStats"})
	ucLogger.Info("Use case started", nil)

	stats, err := uc.stats.DashboardStats(ctx)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_listings": stats.TotalListings,
		"total_leads":    stats.TotalLeads,
	})
	return stats, nil
}
