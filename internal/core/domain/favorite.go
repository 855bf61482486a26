package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite - объявление в избранном пользователя
type Favorite struct {
	UserID    uuid.UUID
	ListingID int64
	CreatedAt time.Time
	Listing   *Listing
}
