package domain

import "errors"

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrLeadNotFound     = errors.New("lead not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrAlreadyFavorite  = errors.New("listing already in favorites")
	ErrSlugTaken        = errors.New("seo slug already taken")
	ErrReviewNotFound   = errors.New("review not found")
	ErrForbidden        = errors.New("operation is not allowed for this user")

	ErrInvalidStatus     = errors.New("invalid listing status")
	ErrInvalidLeadStatus = errors.New("invalid lead status")
	ErrInvalidDiscount   = errors.New("discount must be between 0 and 100")
	ErrInvalidListing    = errors.New("invalid listing")
	ErrInvalidLead       = errors.New("invalid lead")
	ErrInvalidFilter     = errors.New("invalid search filter")
	ErrInvalidReview     = errors.New("invalid review")
)
