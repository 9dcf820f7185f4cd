package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortoclub/platform-api/internal/models"
)

type WaitlistRepository struct {
	pool *pgxpool.Pool
}

func NewWaitlistRepository(pool *pgxpool.Pool) *WaitlistRepository {
	return &WaitlistRepository{pool: pool}
}

// Create inserts a waitlist entry. Entries are de-duplicated by
// (tenant_id, email): a repeat submission returns ErrDuplicate, the same
// email under another tenant is a fresh entry.
func (r *WaitlistRepository) Create(ctx context.Context, tenantID uuid.UUID, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	query := `
		INSERT INTO waitlist_entries (tenant_id, name, email, whatsapp, instagram, residency_level, subspecialty)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	created := *entry
	created.TenantID = tenantID

	err := r.pool.QueryRow(ctx, query,
		tenantID, entry.Name, entry.Email, entry.Whatsapp, entry.Instagram, entry.ResidencyLevel, entry.Subspecialty,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	return &created, nil
}

// ListByTenant returns the tenant's waitlist, newest first.
func (r *WaitlistRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.WaitlistEntry, error) {
	query := `
		SELECT id, tenant_id, name, email, whatsapp, COALESCE(instagram, ''), residency_level, subspecialty, created_at
		FROM waitlist_entries
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist entries: %w", err)
	}
	defer rows.Close()

	entries := []models.WaitlistEntry{}
	for rows.Next() {
		var e models.WaitlistEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Name, &e.Email, &e.Whatsapp, &e.Instagram, &e.ResidencyLevel, &e.Subspecialty, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan waitlist entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waitlist entries: %w", err)
	}

	return entries, nil
}

// CountByTenant returns the number of waitlist entries for the tenant.
func (r *WaitlistRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64

	query := `SELECT COUNT(*) FROM waitlist_entries WHERE tenant_id = $1`

	if err := r.pool.QueryRow(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	return count, nil
}
