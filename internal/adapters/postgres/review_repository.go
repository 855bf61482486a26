package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reviewColumns = "r.id, r.listing_id, r.user_id, r.rating, r.title, r.comment, r.created_at, r.updated_at"

// PostgresReviewRepository - отзывы, уникальность пары (listing_id, user_id) держит база
type PostgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) (*PostgresReviewRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresReviewRepository{pool: pool}, nil
}

func scanReview(row pgx.Row, extra ...interface{}) (domain.Review, error) {
	var review domain.Review
	var rating int16
	dest := []interface{}{
		&review.ID, &review.ListingID, &review.UserID, &rating,
		&review.Title, &review.Comment, &review.CreatedAt, &review.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Review{}, err
	}
	review.Rating = int(rating)
	return review, nil
}

// Upsert - xmax = 0 только у строки, которую вставил этот же запрос
func (r *PostgresReviewRepository) Upsert(ctx context.Context, review domain.Review) (int64, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PostgresReviewRepository",
		"method":     "Upsert",
		"user_id":    review.UserID,
		"listing_id": review.ListingID,
	})

	query := `
		INSERT INTO reviews (listing_id, user_id, rating, title, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (listing_id, user_id) DO UPDATE
		SET rating = EXCLUDED.rating,
		    title = EXCLUDED.title,
		    comment = EXCLUDED.comment,
		    updated_at = NOW()
		RETURNING id, (xmax = 0)`

	var id int64
	var created bool
	err := r.pool.QueryRow(ctx, query,
		review.ListingID, review.UserID, review.Rating, review.Title, review.Comment,
	).Scan(&id, &created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return 0, false, fmt.Errorf("%w: id %d", domain.ErrListingNotFound, review.ListingID)
		}
		repoLogger.Error("Failed to upsert review", err, nil)
		return 0, false, fmt.Errorf("failed to upsert review: %w", err)
	}

	repoLogger.Debug("Review saved", port.Fields{"review_id": id, "created": created})
	return id, created, nil
}

func (r *PostgresReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := fmt.Sprintf("SELECT %s FROM reviews r WHERE r.id = $1", reviewColumns)
	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrReviewNotFound, id)
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

func (r *PostgresReviewRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reviews r
		WHERE r.listing_id = $1
		ORDER BY r.created_at DESC, r.id DESC`, reviewColumns)
	return r.queryReviews(ctx, false, query, listingID)
}

// ListByUser - заголовок пустой, если объявление снято с публикации
func (r *PostgresReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s, COALESCE(l.title, '') FROM reviews r
		LEFT JOIN listings l ON l.id = r.listing_id AND l.active = TRUE
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC`, reviewColumns)
	return r.queryReviews(ctx, true, query, userID)
}

func (r *PostgresReviewRepository) queryReviews(ctx context.Context, withTitle bool, query string, args ...interface{}) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var title string
		var extra []interface{}
		if withTitle {
			extra = append(extra, &title)
		}
		review, err := scanReview(rows, extra...)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		review.ListingTitle = title
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during reviews iteration: %w", err)
	}
	return reviews, nil
}

func (r *PostgresReviewRepository) RatingDistribution(ctx context.Context, listingID int64) (map[int]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE listing_id = $1 GROUP BY rating`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating distribution: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int, domain.MaxRating)
	for rows.Next() {
		var rating int16
		var count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating count: %w", err)
		}
		counts[int(rating)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rating counts iteration: %w", err)
	}
	return counts, nil
}

func (r *PostgresReviewRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %d", domain.ErrReviewNotFound, id)
	}
	return nil
}
