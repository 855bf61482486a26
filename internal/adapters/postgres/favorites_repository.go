package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFavoritesRepository - избранное пользователей
type PostgresFavoritesRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFavoritesRepository(pool *pgxpool.Pool) (*PostgresFavoritesRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresFavoritesRepository{pool: pool}, nil
}

// Add - повторное добавление возвращает domain.ErrAlreadyFavorite
func (r *PostgresFavoritesRepository) Add(ctx context.Context, userID uuid.UUID, listingID int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "PostgresFavoritesRepository",
		"method":     "Add",
		"user_id":    userID,
		"listing_id": listingID,
	})

	query := `INSERT INTO favorites (user_id, listing_id) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, query, userID, listingID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				repoLogger.Debug("Favorite already exists", nil)
				return domain.ErrAlreadyFavorite
			case pgForeignKeyViolation:
				return domain.ErrListingNotFound
			}
		}
		repoLogger.Error("Failed to add favorite", err, port.Fields{"query": query})
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	repoLogger.Debug("Successfully added to favorites.", nil)
	return nil
}

func (r *PostgresFavoritesRepository) Remove(ctx context.Context, userID uuid.UUID, listingID int64) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`
	tag, err := r.pool.Exec(ctx, query, userID, listingID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

// List - новые первыми. Для снятых с публикации объявлений Listing остается nil.
func (r *PostgresFavoritesRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresFavoritesRepository",
		"method":    "List",
		"user_id":   userID,
	})

	rows, err := r.pool.Query(ctx, `
		SELECT f.listing_id, f.created_at
		FROM favorites f
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.listing_id DESC`, userID)
	if err != nil {
		repoLogger.Error("Failed to query favorites", err, nil)
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	favorites := make([]domain.Favorite, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		fav := domain.Favorite{UserID: userID}
		if err := rows.Scan(&fav.ListingID, &fav.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
		ids = append(ids, fav.ListingID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during favorites iteration: %w", err)
	}
	if len(ids) == 0 {
		return favorites, nil
	}

	listings := &ListingRepository{pool: r.pool}
	active, err := listings.queryListings(ctx,
		fmt.Sprintf("SELECT %s FROM listings l WHERE l.active = TRUE AND l.id = ANY($1)", listingColumns), ids)
	if err != nil {
		repoLogger.Error("Failed to load favorite listings", err, nil)
		return nil, err
	}
	byID := make(map[int64]domain.Listing, len(active))
	for _, l := range active {
		byID[l.ID] = l
	}
	for i := range favorites {
		if l, ok := byID[favorites[i].ListingID]; ok {
			l := l
			favorites[i].Listing = &l
		}
	}

	repoLogger.Debug("Favorites loaded", port.Fields{"count": len(favorites)})
	return favorites, nil
}

func (r *PostgresFavoritesRepository) Exists(ctx context.Context, userID uuid.UUID, listingID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND listing_id = $2)`,
		userID, listingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}
