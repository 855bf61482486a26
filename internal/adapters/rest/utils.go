package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// writeUseCaseError переводит доменные ошибки в HTTP-статусы.
// Текст внутренних ошибок клиенту не отдается.
func writeUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error, internalMessage string) {
	switch {
	case errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidLeadStatus),
		errors.Is(err, domain.ErrInvalidDiscount),
		errors.Is(err, domain.ErrInvalidListing),
		errors.Is(err, domain.ErrInvalidLead),
		errors.Is(err, domain.ErrInvalidReview):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrLeadNotFound),
		errors.Is(err, domain.ErrFavoriteNotFound),
		errors.Is(err, domain.ErrReviewNotFound):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrAlreadyFavorite),
		errors.Is(err, domain.ErrSlugTaken):
		WriteJSONError(w, http.StatusConflict, err.Error())
	default:
		logger.Error(internalMessage, err, nil)
		WriteJSONError(w, http.StatusInternalServerError, internalMessage)
	}
}

// decodeJSONBody читает тело запроса, неизвестные поля - ошибка
func decodeJSONBody(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// Парсеры query-параметров: отсутствующий параметр дает nil,
// некорректный - ошибку с именем параметра.

func parseOptionalString(query url.Values, key string) string {
	return strings.TrimSpace(query.Get(key))
}

func parseOptionalFloat(query url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%s must be a finite number", key)
	}
	return &v, nil
}

func parseOptionalInt(query url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}

func parseIntOrDefault(query url.Values, key string, def int) (int, error) {
	v, err := parseOptionalInt(query, key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

// parseInt64List разбирает "1,2,3"
func parseInt64List(query url.Values, key string) ([]int64, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a comma separated list of integers", key)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parsePagination проверяет page >= 1 и pageSize в 1..MaxPageSize
func parsePagination(query url.Values, defaultPageSize, maxPageSize int) (int, int, error) {
	page, err := parseIntOrDefault(query, "page", domain.DefaultPage)
	if err != nil {
		return 0, 0, err
	}
	if page < 1 {
		return 0, 0, fmt.Errorf("page must be >= 1")
	}
	pageSize, err := parseIntOrDefault(query, "pageSize", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return 0, 0, fmt.Errorf("pageSize must be within [1, %d]", maxPageSize)
	}
	return page, pageSize, nil
}

// parseProximity: обе координаты или ни одной. Радиус по умолчанию только когда он не передан.
func parseProximity(query url.Values) (*domain.ProximityFilter, error) {
	lat, err := parseOptionalFloat(query, "latitude")
	if err != nil {
		return nil, err
	}
	lng, err := parseOptionalFloat(query, "longitude")
	if err != nil {
		return nil, err
	}
	radius, err := parseOptionalFloat(query, "radiusKm")
	if err != nil {
		return nil, err
	}

	if lat == nil && lng == nil {
		if radius != nil {
			return nil, fmt.Errorf("radiusKm requires latitude and longitude")
		}
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, fmt.Errorf("latitude and longitude must be provided together")
	}

	p := &domain.ProximityFilter{Latitude: *lat, Longitude: *lng, RadiusKm: domain.DefaultRadiusKm}
	if radius != nil {
		p.RadiusKm = *radius
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
