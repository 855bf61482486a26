package postgres_adapter

import (
	"context"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAnalyticsRepository - агрегаты отчетов на GROUP BY, только активные объявления
type PostgresAnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAnalyticsRepository(pool *pgxpool.Pool) (*PostgresAnalyticsRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresAnalyticsRepository{pool: pool}, nil
}

func (r *PostgresAnalyticsRepository) TopViewed(ctx context.Context, limit int) ([]domain.ViewedListing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, views, price::float8, status
		FROM listings
		WHERE active = TRUE
		ORDER BY views DESC, id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query most viewed listings: %w", err)
	}
	defer rows.Close()

	top := make([]domain.ViewedListing, 0, limit)
	for rows.Next() {
		var l domain.ViewedListing
		var status string
		if err := rows.Scan(&l.ID, &l.Title, &l.Views, &l.Price, &status); err != nil {
			return nil, fmt.Errorf("failed to scan viewed listing: %w", err)
		}
		l.Status = domain.ListingStatus(status)
		top = append(top, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during viewed listings iteration: %w", err)
	}
	return top, nil
}

func (r *PostgresAnalyticsRepository) StatusTotals(ctx context.Context) (map[domain.ListingStatus]domain.GroupTotals, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(views), 0)::bigint, COALESCE(SUM(price), 0)::float8
		FROM listings
		WHERE active = TRUE
		GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query status totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[domain.ListingStatus]domain.GroupTotals)
	for rows.Next() {
		var status string
		var t domain.GroupTotals
		if err := rows.Scan(&status, &t.Count, &t.Views, &t.PriceSum); err != nil {
			return nil, fmt.Errorf("failed to scan status totals: %w", err)
		}
		totals[domain.ListingStatus(status)] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during status totals iteration: %w", err)
	}
	return totals, nil
}

func (r *PostgresAnalyticsRepository) NeighborhoodTotals(ctx context.Context) ([]domain.NeighborhoodTotals, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresAnalyticsRepository",
		"method":    "NeighborhoodTotals",
	})

	rows, err := r.pool.Query(ctx, `
		SELECT city, neighborhood, status,
		       COUNT(*), COALESCE(SUM(views), 0)::bigint, COALESCE(SUM(price), 0)::float8
		FROM listings
		WHERE active = TRUE
		GROUP BY city, neighborhood, status`)
	if err != nil {
		repoLogger.Error("Failed to query neighborhood totals", err, nil)
		return nil, fmt.Errorf("failed to query neighborhood totals: %w", err)
	}
	defer rows.Close()

	result := make([]domain.NeighborhoodTotals, 0)
	for rows.Next() {
		var row domain.NeighborhoodTotals
		var status string
		if err := rows.Scan(&row.City, &row.Neighborhood, &status, &row.Totals.Count, &row.Totals.Views, &row.Totals.PriceSum); err != nil {
			return nil, fmt.Errorf("failed to scan neighborhood totals: %w", err)
		}
		row.Status = domain.ListingStatus(status)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during neighborhood totals iteration: %w", err)
	}

	repoLogger.Debug("Neighborhood totals loaded", port.Fields{"rows": len(result)})
	return result, nil
}

// LeadCounts - две группировки в одном запросе через GROUPING SETS
func (r *PostgresAnalyticsRepository) LeadCounts(ctx context.Context) (map[domain.LeadStatus]int, map[int64]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, listing_id, COUNT(*), GROUPING(status)
		FROM leads
		GROUP BY GROUPING SETS ((status), (listing_id))`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query lead counts: %w", err)
	}
	defer rows.Close()

	byStatus := make(map[domain.LeadStatus]int, len(domain.AllLeadStatuses))
	perListing := make(map[int64]int)
	for rows.Next() {
		var status *string
		var listingID *int64
		var count, statusGrouped int
		if err := rows.Scan(&status, &listingID, &count, &statusGrouped); err != nil {
			return nil, nil, fmt.Errorf("failed to scan lead counts: %w", err)
		}
		switch {
		case statusGrouped == 0 && status != nil:
			byStatus[domain.LeadStatus(*status)] = count
		case listingID != nil:
			perListing[*listingID] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error during lead counts iteration: %w", err)
	}
	return byStatus, perListing, nil
}
