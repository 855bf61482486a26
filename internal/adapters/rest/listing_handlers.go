package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	usecases_port "listing-service/internal/core/port/usecases_port"
)

type ListingHandler struct {
	detailsUC      usecases_port.GetListingDetailsUseCase
	recentUC       usecases_port.RecentListingsUseCase
	neighborhoodUC usecases_port.NeighborhoodListingsUseCase
	similarUC      usecases_port.SimilarListingsUseCase
}

func NewListingHandler(
	detailsUC usecases_port.GetListingDetailsUseCase,
	recentUC usecases_port.RecentListingsUseCase,
	neighborhoodUC usecases_port.NeighborhoodListingsUseCase,
	similarUC usecases_port.SimilarListingsUseCase,
) *ListingHandler {
	return &ListingHandler{
		detailsUC:      detailsUC,
		recentUC:       recentUC,
		neighborhoodUC: neighborhoodUC,
		similarUC:      similarUC,
	}
}

// GetDetails обрабатывает GET /api/v1/listings/{listingID}
func (h *ListingHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetListingDetails"})

	id, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := h.detailsUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve listing")
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingDetailsResponse(details))
}

// Recent обрабатывает GET /api/v1/listings/recent
func (h *ListingHandler) Recent(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RecentListings"})

	limit, err := parseIntOrDefault(r.URL.Query(), "limit", 0)
	if err != nil || limit < 0 {
		WriteJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	listings, err := h.recentUC.Execute(r.Context(), limit)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve recent listings")
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponses(listings))
}

// ByNeighborhood обрабатывает GET /api/v1/listings/neighborhood
func (h *ListingHandler) ByNeighborhood(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "NeighborhoodListings"})
	query := r.URL.Query()

	listings, err := h.neighborhoodUC.Execute(r.Context(), query.Get("city"), query.Get("neighborhood"))
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve neighborhood listings")
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponses(listings))
}

// Similar обрабатывает GET /api/v1/listings/{listingID}/similar
func (h *ListingHandler) Similar(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SimilarListings"})

	id, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	listings, err := h.similarUC.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve similar listings")
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponses(listings))
}
