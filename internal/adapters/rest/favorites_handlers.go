package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	usecases_port "listing-service/internal/core/port/usecases_port"
)

type FavoritesHandler struct {
	addUC    usecases_port.AddToFavoritesUseCase
	removeUC usecases_port.RemoveFromFavoritesUseCase
	listUC   usecases_port.GetUserFavoritesUseCase
	checkUC  usecases_port.IsFavoriteUseCase
}

func NewFavoritesHandler(
	addUC usecases_port.AddToFavoritesUseCase,
	removeUC usecases_port.RemoveFromFavoritesUseCase,
	listUC usecases_port.GetUserFavoritesUseCase,
	checkUC usecases_port.IsFavoriteUseCase,
) *FavoritesHandler {
	return &FavoritesHandler{
		addUC:    addUC,
		removeUC: removeUC,
		listUC:   listUC,
		checkUC:  checkUC,
	}
}

// GetUserFavorites обрабатывает GET /api/v1/favorites
func (h *FavoritesHandler) GetUserFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetUserFavorites"})

	userID, ok := contextkeys.UserIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	favorites, err := h.listUC.Execute(r.Context(), userID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to retrieve favorites")
		return
	}

	RespondWithJSON(w, http.StatusOK, toFavoriteResponses(favorites))
}

// AddToFavorites обрабатывает POST /api/v1/favorites/{listingID}
func (h *FavoritesHandler) AddToFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddToFavorites"})

	userID, ok := contextkeys.UserIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}
	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.addUC.Execute(r.Context(), userID, listingID); err != nil {
		writeUseCaseError(w, logger, err, "Failed to add to favorites")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// RemoveFromFavorites обрабатывает DELETE /api/v1/favorites/{listingID}
func (h *FavoritesHandler) RemoveFromFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RemoveFromFavorites"})

	userID, ok := contextkeys.UserIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}
	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.removeUC.Execute(r.Context(), userID, listingID); err != nil {
		writeUseCaseError(w, logger, err, "Failed to remove from favorites")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// IsFavorite обрабатывает GET /api/v1/favorites/{listingID}
func (h *FavoritesHandler) IsFavorite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "IsFavorite"})

	userID, ok := contextkeys.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}
	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	isFavorite, err := h.checkUC.Execute(r.Context(), userID, listingID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to check favorite")
		return
	}

	RespondWithJSON(w, http.StatusOK, IsFavoriteResponse{IsFavorite: isFavorite})
}
