package rest

import (
	"net/http"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	usecases_port "listing-service/internal/core/port/usecases_port"
)

type ReviewHandler struct {
	upsertUC usecases_port.UpsertReviewUseCase
	listUC   usecases_port.ListListingReviewsUseCase
	statsUC  usecases_port.ReviewStatsUseCase
	mineUC   usecases_port.GetUserReviewsUseCase
	deleteUC usecases_port.DeleteReviewUseCase
}

func NewReviewHandler(
	upsertUC usecases_port.UpsertReviewUseCase,
	listUC usecases_port.ListListingReviewsUseCase,
	statsUC usecases_port.ReviewStatsUseCase,
	mineUC usecases_port.GetUserReviewsUseCase,
	deleteUC usecases_port.DeleteReviewUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		upsertUC: upsertUC,
		listUC:   listUC,
		statsUC:  statsUC,
		mineUC:   mineUC,
		deleteUC: deleteUC,
	}
}

// Upsert обрабатывает PUT /api/v1/listings/{listingID}/reviews.
// 201 для нового отзыва, 200 если пользователь переписал свой.
func (h *ReviewHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpsertReview"})

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

	var req ReviewRequest
	if err := decodeJSONBody(r, &req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	review, created, err := h.upsertUC.Execute(r.Context(), domain.Review{
		ListingID: listingID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
	})
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to save review")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	RespondWithJSON(w, status, toReviewResponse(*review))
}

// ListByListing обрабатывает GET /api/v1/listings/{listingID}/reviews
func (h *ReviewHandler) ListByListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListListingReviews"})

	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	reviews, err := h.listUC.Execute(r.Context(), listingID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to list reviews")
		return
	}

	response := make([]ReviewResponse, len(reviews))
	for i, review := range reviews {
		response[i] = toReviewResponse(review)
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// Stats обрабатывает GET /api/v1/listings/{listingID}/reviews/stats
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ReviewStats"})

	listingID, err := parseIDParam(r, "listingID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.statsUC.Execute(r.Context(), listingID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to compute review stats")
		return
	}
	RespondWithJSON(w, http.StatusOK, toReviewStatsResponse(stats))
}

// Mine обрабатывает GET /api/v1/reviews/mine
func (h *ReviewHandler) Mine(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetUserReviews"})

	userID, ok := contextkeys.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	reviews, err := h.mineUC.Execute(r.Context(), userID)
	if err != nil {
		writeUseCaseError(w, logger, err, "Failed to list user reviews")
		return
	}

	response := make([]UserReviewResponse, len(reviews))
	for i, review := range reviews {
		response[i] = UserReviewResponse{
			ReviewResponse: toReviewResponse(review),
			ListingTitle:   review.ListingTitle,
		}
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// Delete обрабатывает DELETE /api/v1/reviews/{reviewID}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DeleteReview"})

	userID, ok := contextkeys.UserIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}
	reviewID, err := parseIDParam(r, "reviewID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	isAdmin := contextkeys.UserRoleFromContext(r.Context()) == roleAdmin
	if err := h.deleteUC.Execute(r.Context(), userID, isAdmin, reviewID); err != nil {
		writeUseCaseError(w, logger, err, "Failed to delete review")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
