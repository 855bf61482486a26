package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	usecases_port "listing-service/internal/core/port/usecases_port"
)

// AdminHandler - управление каталогом. Роль проверяет AdminMiddleware.
type AdminHandler struct {
	createUC    usecases_port.CreateListingUseCase
	updateUC    usecases_port.UpdateListingUseCase
	deleteUC    usecases_port.DeleteListingUseCase
	promotionUC usecases_port.ConfigurePromotionUseCase
	statsUC     usecases_port.DashboardStatsUseCase
}

func NewAdminHandler(
	createUC usecases_port.CreateListingUseCase,
	updateUC usecases_port.UpdateListingUseCase,
	deleteUC usecases_port.DeleteListingUseCase,
	promotionUC usecases_port.ConfigurePromotionUseCase,
	statsUC usecases_port.DashboardStatsUseCase,
) *AdminHandler {
	return &AdminHandler{
		createUC:    createUC,
		updateUC:    updateUC,
		deleteUC:    deleteUC,
		promotionUC: promotionUC,
		statsUC:     statsUC,
	}
}

// CreateListing обрабатывает POST /api/v1/admin/listings
func (h *AdminHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "CreateListing"})

	var req CreateListingRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	listing, err := h.createUC.Execute(r.Context(), req.toDraft())
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to create listing")
		return
	}

	RespondWithJSON(w, http.StatusCreated, toListingResponse(*listing))
}

// UpdateListing обрабатывает PATCH /api/v1/admin/listings/{listingID}
func (h *AdminHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateListing"})

	id, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdateListingRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	listing, err := h.updateUC.Execute(r.Context(), id, req.toPatch())
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to update listing")
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponse(*listing))
}

// DeleteListing обрабатывает DELETE /api/v1/admin/listings/{listingID}
func (h *AdminHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteListing"})

	id, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.deleteUC.Execute(r.Context(), id); err != nil {
		writeUseCaseError(w, logger, err, "Failed to delete listing")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConfigurePromotion обрабатывает PUT /api/v1/admin/listings/{listingID}/promotion
func (h *AdminHandler) ConfigurePromotion(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ConfigurePromotion"})

	id, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req PromotionRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.promotionUC.Execute(r.Context(), id, domain.ListingStatus(req.Status), req.Discount); err != nil {
		writeUseCaseError(w, logger, err, "Failed to configure promotion")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DashboardStats обрабатывает GET /api/v1/admin/stats
func (h *AdminHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DashboardStats"})

	stats, err := h.statsUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to build dashboard stats")
		return
	}

	RespondWithJSON(w, http.StatusOK, toDashboardStatsResponse(stats))
}
