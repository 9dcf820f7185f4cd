package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortoclub/platform-api/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	id, external_id, email, name, global_role, paid, payment_status,
	has_active_year_access, status, COALESCE(cpf, ''), created_at, updated_at
`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&user.Name,
		&user.GlobalRole,
		&user.Paid,
		&user.PaymentStatus,
		&user.HasActiveYearAccess,
		&user.Status,
		&user.CPF,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpsertByExternalID creates the user on first authenticated access, or
// refreshes the identity-provider fields on subsequent logins. Role,
// payment and status fields are never touched here; those change only
// through admin mutations. A cpf already on record is kept when the
// provider sends none.
func (r *UserRepository) UpsertByExternalID(ctx context.Context, externalID, email, name, cpf string) (*models.User, error) {
	query := `
		INSERT INTO users (external_id, email, name, cpf)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (external_id) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    cpf = COALESCE(EXCLUDED.cpf, users.cpf),
		    updated_at = NOW()
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, externalID, email, name, cpf))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ListByTenant returns the users holding a membership in the tenant. The
// tenant predicate comes from the server-derived scope, never from a client
// parameter.
func (r *UserRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN tenant_memberships tm ON tm.user_id = u.id
		WHERE tm.tenant_id = $1
		ORDER BY u.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateFlags applies an admin mutation to role, payment, status and cpf
// fields. Nil fields are left unchanged. Users are never deleted;
// deactivation is a status flip.
func (r *UserRepository) UpdateFlags(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error) {
	query := `
		UPDATE users
		SET global_role = COALESCE($2, global_role),
		    paid = COALESCE($3, paid),
		    payment_status = COALESCE($4, payment_status),
		    has_active_year_access = COALESCE($5, has_active_year_access),
		    status = COALESCE($6, status),
		    cpf = COALESCE($7, cpf),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query,
		id, req.GlobalRole, req.Paid, req.PaymentStatus, req.HasActiveYearAccess, req.Status, req.CPF))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
