package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortoclub/platform-api/internal/models"
)

type TenantRepository struct {
	pool *pgxpool.Pool
}

func NewTenantRepository(pool *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{pool: pool}
}

// GetBySlug retrieves a tenant by its unique slug. This is the directory
// lookup behind hostname resolution; callers must treat ErrNotFound and any
// other error identically, as access denied.
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	tenant := &models.Tenant{}

	query := `
		SELECT id, slug, display_name, COALESCE(logo_url, ''), COALESCE(primary_color, ''), status, created_at, updated_at
		FROM tenants
		WHERE slug = $1
	`

	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&tenant.ID,
		&tenant.Slug,
		&tenant.DisplayName,
		&tenant.LogoURL,
		&tenant.PrimaryColor,
		&tenant.Status,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return tenant, nil
}

// GetByID retrieves a tenant by id.
func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant := &models.Tenant{}

	query := `
		SELECT id, slug, display_name, COALESCE(logo_url, ''), COALESCE(primary_color, ''), status, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.Slug,
		&tenant.DisplayName,
		&tenant.LogoURL,
		&tenant.PrimaryColor,
		&tenant.Status,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return tenant, nil
}

// UpdateBranding updates the tenant's display fields.
func (r *TenantRepository) UpdateBranding(ctx context.Context, tenantID uuid.UUID, displayName, logoURL, primaryColor string) error {
	query := `
		UPDATE tenants
		SET display_name = COALESCE(NULLIF($2, ''), display_name),
		    logo_url = COALESCE(NULLIF($3, ''), logo_url),
		    primary_color = COALESCE(NULLIF($4, ''), primary_color),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, tenantID, displayName, logoURL, primaryColor)
	if err != nil {
		return fmt.Errorf("failed to update tenant branding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
