package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/geo"
	"listing-service/internal/core/port"
	"listing-service/internal/core/search"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const listingColumns = `
	l.id, l.title, l.description, l.price::float8, COALESCE(l.property_type_id, 0),
	l.street, l.neighborhood, l.city, l.state, l.postal_code,
	l.latitude, l.longitude, l.geohash, l.status, l.discount, l.published_at,
	l.slug, l.image_url, l.bedroom_count, l.bathroom_count, l.area_m2, l.typology,
	l.active, l.views,
	COALESCE((SELECT array_agg(la.amenity_id ORDER BY la.amenity_id)
	          FROM listing_amenities la WHERE la.listing_id = l.id), '{}')`

// ListingRepository - объявления в PostgreSQL
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) (*ListingRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingRepository{pool: pool}, nil
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	var status string
	err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.Price, &l.PropertyTypeID,
		&l.Street, &l.Neighborhood, &l.City, &l.State, &l.PostalCode,
		&l.Latitude, &l.Longitude, &l.Geohash, &status, &l.Discount, &l.PublishedAt,
		&l.Slug, &l.ImageURL, &l.BedroomCount, &l.BathroomCount, &l.AreaM2, &l.Typology,
		&l.Active, &l.Views,
		&l.AmenityIDs,
	)
	l.Status = domain.ListingStatus(status)
	return l, err
}

// queryListings выполняет выборку и собирает объявления
func (r *ListingRepository) queryListings(ctx context.Context, query string, args ...interface{}) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during listings iteration: %w", err)
	}
	return listings, nil
}

// FindNearby отбирает кандидатов по рамке, расстояние и сортировку считает в Go
func (r *ListingRepository) FindNearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]domain.NearbyListing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresListingRepository",
		"method":    "FindNearby",
	})

	qb := newQueryBuilder()
	qb.AddBox(geo.BoundingBox(lat, lng, radiusKm))
	where, args := qb.build()

	query := fmt.Sprintf("SELECT %s FROM listings l %s", listingColumns, where)
	candidates, err := r.queryListings(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to find nearby candidates", err, nil)
		return nil, err
	}

	result := geo.WithinRadius(candidates, lat, lng, radiusKm, limit)
	repoLogger.Debug("Nearby candidates filtered", port.Fields{"candidates": len(candidates), "within_radius": len(result)})
	return result, nil
}

func (r *ListingRepository) FindByStatus(ctx context.Context, status domain.ListingStatus, limit int) ([]domain.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM listings l
		WHERE l.active = TRUE AND l.status = $1
		ORDER BY l.published_at DESC, l.id ASC
		LIMIT $2`, listingColumns)
	return r.queryListings(ctx, query, string(status), limit)
}

func (r *ListingRepository) FindRecent(ctx context.Context, limit int) ([]domain.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM listings l
		WHERE l.active = TRUE
		ORDER BY l.published_at DESC, l.id ASC
		LIMIT $1`, listingColumns)
	return r.queryListings(ctx, query, limit)
}

func (r *ListingRepository) FindByNeighborhood(ctx context.Context, city, neighborhood string) ([]domain.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM listings l
		WHERE l.active = TRUE AND l.city = $1 AND l.neighborhood = $2
		ORDER BY l.published_at DESC, l.id ASC`, listingColumns)
	return r.queryListings(ctx, query, city, neighborhood)
}

func (r *ListingRepository) FindByCells(ctx context.Context, cells []string, excludeID int64, limit int) ([]domain.Listing, error) {
	if len(cells) == 0 {
		return []domain.Listing{}, nil
	}
	patterns := make([]string, 0, len(cells))
	for _, c := range cells {
		patterns = append(patterns, escapeLike(c)+"%")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM listings l
		WHERE l.active = TRUE AND l.id <> $1 AND l.geohash LIKE ANY($2)
		LIMIT $3`, listingColumns)
	return r.queryListings(ctx, query, excludeID, patterns, limit)
}

// Search - SQL отсекает лишнее, окончательную проверку и порядок дает search.Apply,
// так что результат совпадает с хранилищем в памяти.
func (r *ListingRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.SearchHit, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresListingRepository",
		"method":    "Search",
	})

	filter = filter.Normalize()
	where, args := applySearchFilter(filter)
	query := fmt.Sprintf("SELECT %s FROM listings l %s", listingColumns, where)
	repoLogger.Debug("Executing search query", port.Fields{"where": where, "args_count": len(args)})

	candidates, err := r.queryListings(ctx, query, args...)
	if err != nil {
		repoLogger.Error("Failed to search listings", err, nil)
		return nil, err
	}
	return search.Apply(candidates, filter), nil
}

func (r *ListingRepository) SearchText(ctx context.Context, term string) ([]domain.SearchHit, error) {
	qb := newQueryBuilder()
	qb.AddAnyContains([]string{"l.title", "l.description", "l.neighborhood", "l.city"}, term)
	where, args := qb.build()

	query := fmt.Sprintf("SELECT %s FROM listings l %s", listingColumns, where)
	candidates, err := r.queryListings(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return search.MatchText(candidates, term), nil
}

func (r *ListingRepository) ListActive(ctx context.Context) ([]domain.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM listings l
		WHERE l.active = TRUE
		ORDER BY l.published_at DESC, l.id ASC`, listingColumns)
	return r.queryListings(ctx, query)
}

func (r *ListingRepository) GetByID(ctx context.Context, id int64) (*domain.ListingDetails, error) {
	query := fmt.Sprintf("SELECT %s FROM listings l WHERE l.id = $1 AND l.active = TRUE", listingColumns)
	l, err := scanListing(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing %d: %w", id, err)
	}

	amenities, err := r.listAmenities(ctx, `
		SELECT a.id, a.name, a.slug, a.icon
		FROM amenities a
		JOIN listing_amenities la ON la.amenity_id = a.id
		WHERE la.listing_id = $1
		ORDER BY a.name`, id)
	if err != nil {
		return nil, err
	}

	return &domain.ListingDetails{Listing: l, Amenities: amenities}, nil
}

func (r *ListingRepository) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return r.listAmenities(ctx, "SELECT id, name, slug, icon FROM amenities ORDER BY name")
}

func (r *ListingRepository) listAmenities(ctx context.Context, query string, args ...interface{}) ([]domain.Amenity, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query amenities: %w", err)
	}
	defer rows.Close()

	amenities := make([]domain.Amenity, 0)
	for rows.Next() {
		var a domain.Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan amenity: %w", err)
		}
		amenities = append(amenities, a)
	}
	return amenities, rows.Err()
}

// Create вставляет объявление и его удобства в одной транзакции
func (r *ListingRepository) Create(ctx context.Context, l domain.Listing) (int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresListingRepository",
		"method":    "Create",
		"slug":      l.Slug,
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var propertyTypeID *int64
	if l.PropertyTypeID != 0 {
		propertyTypeID = &l.PropertyTypeID
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO listings (
			title, description, price, property_type_id, street, neighborhood, city, state, postal_code,
			latitude, longitude, geohash, status, discount, published_at, slug, image_url,
			bedroom_count, bathroom_count, area_m2, typology, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id`,
		l.Title, l.Description, l.Price, propertyTypeID, l.Street, l.Neighborhood, l.City, l.State, l.PostalCode,
		l.Latitude, l.Longitude, l.Geohash, string(l.Status), l.Discount, l.PublishedAt, l.Slug, l.ImageURL,
		l.BedroomCount, l.BathroomCount, l.AreaM2, l.Typology, l.Active,
	).Scan(&id)
	if err != nil {
		repoLogger.Error("Failed to insert listing", err, nil)
		return 0, translateWriteError("failed to insert listing", err)
	}

	if err := replaceAmenities(ctx, tx, id, l.AmenityIDs); err != nil {
		repoLogger.Error("Failed to link amenities", err, nil)
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		repoLogger.Error("Failed to commit transaction", err, nil)
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Listing inserted", port.Fields{"listing_id": id})
	return id, nil
}

// Update не трогает slug, дату публикации и просмотры
func (r *ListingRepository) Update(ctx context.Context, l domain.Listing) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE listings SET
			title = $2, description = $3, price = $4, street = $5, neighborhood = $6, city = $7,
			state = $8, postal_code = $9, latitude = $10, longitude = $11, geohash = $12,
			status = $13, discount = $14, image_url = $15, bedroom_count = $16,
			bathroom_count = $17, area_m2 = $18, typology = $19, updated_at = NOW()
		WHERE id = $1 AND active = TRUE`,
		l.ID, l.Title, l.Description, l.Price, l.Street, l.Neighborhood, l.City,
		l.State, l.PostalCode, l.Latitude, l.Longitude, l.Geohash,
		string(l.Status), l.Discount, l.ImageURL, l.BedroomCount,
		l.BathroomCount, l.AreaM2, l.Typology,
	)
	if err != nil {
		return translateWriteError("failed to update listing", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}

	if err := replaceAmenities(ctx, tx, l.ID, l.AmenityIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func replaceAmenities(ctx context.Context, tx pgx.Tx, listingID int64, amenityIDs []int64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM listing_amenities WHERE listing_id = $1", listingID); err != nil {
		return fmt.Errorf("failed to clear amenities: %w", err)
	}
	if len(amenityIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO listing_amenities (listing_id, amenity_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`, listingID, amenityIDs)
	if err != nil {
		return translateWriteError("failed to link amenities", err)
	}
	return nil
}

// SetPromotion меняет статус и скидку одним запросом
func (r *ListingRepository) SetPromotion(ctx context.Context, id int64, status domain.ListingStatus, discount int) error {
	return r.execOnActive(ctx, "failed to set promotion",
		"UPDATE listings SET status = $2, discount = $3, updated_at = NOW() WHERE id = $1 AND active = TRUE",
		id, string(status), discount)
}

func (r *ListingRepository) Deactivate(ctx context.Context, id int64) error {
	return r.execOnActive(ctx, "failed to deactivate listing",
		"UPDATE listings SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active = TRUE", id)
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.execOnActive(ctx, "failed to increment views",
		"UPDATE listings SET views = views + 1 WHERE id = $1 AND active = TRUE", id)
}

func (r *ListingRepository) execOnActive(ctx context.Context, what string, query string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// translateWriteError переводит нарушения ограничений в доменные ошибки
func translateWriteError(what string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrSlugTaken, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: unknown reference (%s)", domain.ErrInvalidListing, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// DashboardStats - сводка для админки одним запросом на каждую таблицу
func (r *ListingRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{
		ByStatus:    make(map[domain.ListingStatus]int, len(domain.AllStatuses)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, status := range domain.AllStatuses {
		stats.ByStatus[status] = 0
	}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE active) FROM listings`,
	).Scan(&stats.TotalListings, &stats.ActiveListings)
	if err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	rows, err := r.pool.Query(ctx, "SELECT status, COUNT(*) FROM listings WHERE active GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count listings by status: %w", err)
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.ByStatus[domain.ListingStatus(status)] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during status counts iteration: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'new') FROM leads`,
	).Scan(&stats.TotalLeads, &stats.NewLeads)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM favorites").Scan(&stats.TotalFavorites); err != nil {
		return nil, fmt.Errorf("failed to count favorites: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM listings l
		WHERE l.active = TRUE
		ORDER BY l.views DESC, l.id ASC
		LIMIT 1`, listingColumns)
	mostViewed, err := scanListing(r.pool.QueryRow(ctx, query))
	switch {
	case err == nil:
		stats.MostViewed = &mostViewed
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to find most viewed listing: %w", err)
	}

	return stats, nil
}
