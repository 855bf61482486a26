package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	usecases_port "listing-service/internal/core/port/usecases_port"
)

// ReportsHandler - отчеты админки, монтируется под AdminMiddleware
type ReportsHandler struct {
	viewsUC         usecases_port.ViewsReportUseCase
	leadsUC         usecases_port.LeadConversionReportUseCase
	neighborhoodsUC usecases_port.NeighborhoodReportUseCase
	revenueUC       usecases_port.RevenueReportUseCase
}

func NewReportsHandler(
	viewsUC usecases_port.ViewsReportUseCase,
	leadsUC usecases_port.LeadConversionReportUseCase,
	neighborhoodsUC usecases_port.NeighborhoodReportUseCase,
	revenueUC usecases_port.RevenueReportUseCase,
) *ReportsHandler {
	return &ReportsHandler{
		viewsUC:         viewsUC,
		leadsUC:         leadsUC,
		neighborhoodsUC: neighborhoodsUC,
		revenueUC:       revenueUC,
	}
}

// Views обрабатывает GET /api/v1/admin/reports/views
func (h *ReportsHandler) Views(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ViewsReport"})

	report, err := h.viewsUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to build views report")
		return
	}
	RespondWithJSON(w, http.StatusOK, toViewsReportResponse(report))
}

// Leads обрабатывает GET /api/v1/admin/reports/leads
func (h *ReportsHandler) Leads(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "LeadConversionReport"})

	report, err := h.leadsUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to build leads report")
		return
	}
	RespondWithJSON(w, http.StatusOK, toLeadReportResponse(report))
}

// Neighborhoods обрабатывает GET /api/v1/admin/reports/neighborhoods
func (h *ReportsHandler) Neighborhoods(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "NeighborhoodReport"})

	report, err := h.neighborhoodsUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to build neighborhood report")
		return
	}
	RespondWithJSON(w, http.StatusOK, toNeighborhoodReportResponse(report))
}

// Revenue обрабатывает GET /api/v1/admin/reports/revenue
func (h *ReportsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RevenueReport"})

	report, err := h.revenueUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to build revenue report")
		return
	}
	RespondWithJSON(w, http.StatusOK, RevenueReportResponse{
		TotalRent:     report.TotalRent,
		AvailableRent: report.AvailableRent,
		RentedRent:    report.RentedRent,
		OccupancyRate: report.OccupancyRate,
		Rented:        report.Rented,
		NotRented:     report.NotRented,
	})
}
