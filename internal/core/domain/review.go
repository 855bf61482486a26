package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review - отзыв пользователя об объявлении, один на пару пользователь-объявление
type Review struct {
	ID           int64
	ListingID    int64
	ListingTitle string // заполняется только в выборке по пользователю
	UserID       uuid.UUID
	Rating       int
	Title        string
	Comment      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate проверяет оценку и длины текста в символах
func (r Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be within [%d, %d]", ErrInvalidReview, MinRating, MaxRating)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(r.Title)); n < 5 || n > 200 {
		return fmt.Errorf("%w: title must be 5..200 characters", ErrInvalidReview)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(r.Comment)); n < 10 || n > 1000 {
		return fmt.Errorf("%w: comment must be 10..1000 characters", ErrInvalidReview)
	}
	return nil
}

// ReviewStats - сводка оценок объявления
type ReviewStats struct {
	Total        int
	Average      float64 // один знак после запятой
	Distribution map[int]int
}

// NewReviewStats строит сводку из количества отзывов на каждую оценку
func NewReviewStats(counts map[int]int) ReviewStats {
	stats := ReviewStats{Distribution: make(map[int]int, MaxRating)}
	sum := 0
	for rating := MinRating; rating <= MaxRating; rating++ {
		n := counts[rating]
		stats.Distribution[rating] = n
		stats.Total += n
		sum += rating * n
	}
	if stats.Total > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Total)*10) / 10
	}
	return stats
}
