package postgres_adapter

import (
	"context"
	"errors"
	"fmt"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"listing-service/internal/core/search"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLeadRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLeadRepository(pool *pgxpool.Pool) (*PostgresLeadRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresLeadRepository{pool: pool}, nil
}

func (r *PostgresLeadRepository) Create(ctx context.Context, lead domain.Lead) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (listing_id, name, email, phone, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		lead.ListingID, lead.Name, lead.Email, lead.Phone, lead.Message, string(lead.Status), lead.CreatedAt, lead.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return 0, domain.ErrListingNotFound
		}
		return 0, fmt.Errorf("failed to insert lead: %w", err)
	}
	return id, nil
}

// List - новые первыми; счетчик и страница читаются в одной транзакции
func (r *PostgresLeadRepository) List(ctx context.Context, filter domain.LeadFilter) (*domain.PaginatedLeads, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresLeadRepository",
		"method":    "List",
		"status":    filter.Status,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		repoLogger.Error("Failed to begin transaction", err, nil)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	where := ""
	args := []interface{}{}
	if filter.Status != "" {
		where = "WHERE status = $1"
		args = append(args, string(filter.Status))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM leads " + where
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		repoLogger.Error("Failed to count leads", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	result := &domain.PaginatedLeads{
		Leads:      make([]domain.Lead, 0, filter.PageSize),
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: search.TotalPages(total, filter.PageSize),
	}
	if total == 0 {
		return result, nil
	}

	dataQuery := fmt.Sprintf(`
		SELECT id, listing_id, name, email, phone, message, status, created_at, updated_at
		FROM leads %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := tx.Query(ctx, dataQuery, args...)
	if err != nil {
		repoLogger.Error("Failed to query leads", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lead domain.Lead
		var status string
		if err := rows.Scan(&lead.ID, &lead.ListingID, &lead.Name, &lead.Email, &lead.Phone,
			&lead.Message, &status, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		lead.Status = domain.LeadStatus(status)
		result.Leads = append(result.Leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during leads iteration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

func (r *PostgresLeadRepository) UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1", id, string(status))
	if err != nil {
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (r *PostgresLeadRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}
