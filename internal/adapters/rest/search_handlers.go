package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	usecases_port "listing-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// SearchHandler - все виды поиска по каталогу
type SearchHandler struct {
	proximityUC   usecases_port.ProximitySearchUseCase
	statusUC      usecases_port.StatusSearchUseCase
	advancedUC    usecases_port.AdvancedSearchUseCase
	textUC        usecases_port.TextSearchUseCase
	suggestionsUC usecases_port.SuggestionsUseCase
	filtersUC     usecases_port.AvailableFiltersUseCase
}

func NewSearchHandler(
	proximityUC usecases_port.ProximitySearchUseCase,
	statusUC usecases_port.StatusSearchUseCase,
	advancedUC usecases_port.AdvancedSearchUseCase,
	textUC usecases_port.TextSearchUseCase,
	suggestionsUC usecases_port.SuggestionsUseCase,
	filtersUC usecases_port.AvailableFiltersUseCase,
) *SearchHandler {
	return &SearchHandler{
		proximityUC:   proximityUC,
		statusUC:      statusUC,
		advancedUC:    advancedUC,
		textUC:        textUC,
		suggestionsUC: suggestionsUC,
		filtersUC:     filtersUC,
	}
}

// maxStatusLimit совпадает с размером записи кеша по статусу
const maxStatusLimit = 100

// Nearby обрабатывает GET /api/v1/listings/nearby
func (h *SearchHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Nearby"})
	query := r.URL.Query()

	if query.Get("latitude") == "" || query.Get("longitude") == "" {
		WriteJSONError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	proximity, err := parseProximity(query)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	nearby, err := h.proximityUC.Execute(r.Context(), proximity.Latitude, proximity.Longitude, proximity.RadiusKm)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to search nearby listings")
		return
	}

	RespondWithJSON(w, http.StatusOK, toNearbyResponses(nearby))
}

// ByStatus обрабатывает GET /api/v1/listings/status/{status}
func (h *SearchHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ByStatus"})

	status, err := domain.ParseListingStatus(chi.URLParam(r, "status"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseIntOrDefault(r.URL.Query(), "limit", 10)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit < 1 || limit > maxStatusLimit {
		WriteJSONError(w, http.StatusBadRequest, "limit must be within [1, 100]")
		return
	}

	listings, err := h.statusUC.Execute(r.Context(), status, limit)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve listings by status")
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponses(listings))
}

// Advanced обрабатывает GET /api/v1/search
func (h *SearchHandler) Advanced(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AdvancedSearch"})

	filter, err := parseSearchFilter(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.advancedUC.Execute(r.Context(), filter)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to search listings")
		return
	}

	RespondWithJSON(w, http.StatusOK, toPaginatedListingsResponse(page))
}

func parseSearchFilter(r *http.Request) (domain.SearchFilter, error) {
	query := r.URL.Query()
	filter := domain.SearchFilter{
		Neighborhood: parseOptionalString(query, "neighborhood"),
		City:         parseOptionalString(query, "city"),
		Typology:     parseOptionalString(query, "typology"),
	}

	var err error
	if filter.PriceMin, err = parseOptionalFloat(query, "priceMin"); err != nil {
		return filter, err
	}
	if filter.PriceMax, err = parseOptionalFloat(query, "priceMax"); err != nil {
		return filter, err
	}
	if filter.BedroomCount, err = parseOptionalInt(query, "bedroomCount"); err != nil {
		return filter, err
	}
	if filter.AmenityIDs, err = parseInt64List(query, "amenityIds"); err != nil {
		return filter, err
	}
	if raw := parseOptionalString(query, "status"); raw != "" {
		if filter.Status, err = domain.ParseListingStatus(raw); err != nil {
			return filter, err
		}
	}
	if filter.Proximity, err = parseProximity(query); err != nil {
		return filter, err
	}
	if filter.Page, filter.PageSize, err = parsePagination(query, domain.DefaultPageSize, domain.MaxPageSize); err != nil {
		return filter, err
	}
	return filter, nil
}

// Text обрабатывает GET /api/v1/search/text
func (h *SearchHandler) Text(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "TextSearch"})
	query := r.URL.Query()

	page, pageSize, err := parsePagination(query, domain.DefaultPageSize, domain.MaxPageSize)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.textUC.Execute(r.Context(), domain.TextQuery{
		Term:     query.Get("term"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to search listings")
		return
	}

	RespondWithJSON(w, http.StatusOK, toPaginatedListingsResponse(result))
}

// Suggestions обрабатывает GET /api/v1/search/suggestions
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Suggestions"})

	suggestions, err := h.suggestionsUC.Execute(r.Context(), r.URL.Query().Get("term"))
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to build suggestions")
		return
	}

	RespondWithJSON(w, http.StatusOK, toSuggestionsResponse(suggestions))
}

// Filters обрабатывает GET /api/v1/search/filters
func (h *SearchHandler) Filters(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AvailableFilters"})

	options, err := h.filtersUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to get filter options")
		return
	}

	RespondWithJSON(w, http.StatusOK, toFilterOptionsResponse(options))
}
