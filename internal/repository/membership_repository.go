package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortoclub/platform-api/internal/models"
)

type MembershipRepository struct {
	pool *pgxpool.Pool
}

func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

// Ensure creates a member-role membership on a user's first interaction
// with a tenant, and returns the current role either way. An existing row
// is never downgraded.
func (r *MembershipRepository) Ensure(ctx context.Context, tenantID, userID uuid.UUID) (models.MembershipRole, error) {
	var role models.MembershipRole

	query := `
		INSERT INTO tenant_memberships (tenant_id, user_id, role)
		VALUES ($1, $2, 'member')
		ON CONFLICT (tenant_id, user_id) DO UPDATE
		SET updated_at = NOW()
		RETURNING role
	`

	if err := r.pool.QueryRow(ctx, query, tenantID, userID).Scan(&role); err != nil {
		return "", fmt.Errorf("failed to ensure membership: %w", err)
	}

	return role, nil
}

// GetRole returns the user's role within the tenant, or ErrNotFound when no
// membership exists.
func (r *MembershipRepository) GetRole(ctx context.Context, tenantID, userID uuid.UUID) (models.MembershipRole, error) {
	var role models.MembershipRole

	query := `
		SELECT role FROM tenant_memberships
		WHERE tenant_id = $1 AND user_id = $2
	`

	if err := r.pool.QueryRow(ctx, query, tenantID, userID).Scan(&role); err != nil {
		if isNoRows(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get membership role: %w", err)
	}

	return role, nil
}

// SetRole changes a user's role within the tenant.
func (r *MembershipRepository) SetRole(ctx context.Context, tenantID, userID uuid.UUID, role models.MembershipRole) error {
	query := `
		UPDATE tenant_memberships
		SET role = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, tenantID, userID, role)
	if err != nil {
		return fmt.Errorf("failed to set membership role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
