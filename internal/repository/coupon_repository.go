package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortoclub/platform-api/internal/models"
)

type CouponRepository struct {
	pool *pgxpool.Pool
}

func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `id, tenant_id, code, type, value, active, valid_from, valid_until, created_at, updated_at`

func scanCoupon(row interface{ Scan(dest ...any) error }) (*models.Coupon, error) {
	coupon := &models.Coupon{}
	err := row.Scan(
		&coupon.ID,
		&coupon.TenantID,
		&coupon.Code,
		&coupon.Type,
		&coupon.Value,
		&coupon.Active,
		&coupon.ValidFrom,
		&coupon.ValidUntil,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

// Create inserts a coupon. Codes are unique per tenant (case-insensitive);
// a clash returns ErrDuplicate.
func (r *CouponRepository) Create(ctx context.Context, tenantID uuid.UUID, code string, couponType models.CouponType, req *models.CreateCouponRequest) (*models.Coupon, error) {
	query := `
		INSERT INTO coupons (tenant_id, code, type, value, active, valid_from, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + couponColumns

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query,
		tenantID, code, couponType, req.Value, req.Active, req.ValidFrom, req.ValidUntil))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	return coupon, nil
}

// GetByCode retrieves a coupon by code within a tenant.
func (r *CouponRepository) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*models.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE tenant_id = $1 AND lower(code) = lower($2)
	`

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return coupon, nil
}

// ListByTenant returns all coupons for the tenant.
func (r *CouponRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []models.Coupon{}
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, *coupon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	return coupons, nil
}

// Update patches a coupon in place. The tenant predicate guarantees an
// admin of tenant A can never touch tenant B's coupons even with a guessed
// id.
func (r *CouponRepository) Update(ctx context.Context, tenantID, couponID uuid.UUID, req *models.UpdateCouponRequest) (*models.Coupon, error) {
	query := `
		UPDATE coupons
		SET type = COALESCE($3, type),
		    value = COALESCE($4, value),
		    active = COALESCE($5, active),
		    valid_from = COALESCE($6, valid_from),
		    valid_until = COALESCE($7, valid_until),
		    updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + couponColumns

	coupon, err := scanCoupon(r.pool.QueryRow(ctx, query,
		tenantID, couponID, req.Type, req.Value, req.Active, req.ValidFrom, req.ValidUntil))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	return coupon, nil
}

// Delete removes a coupon within the tenant.
func (r *CouponRepository) Delete(ctx context.Context, tenantID, couponID uuid.UUID) error {
	query := `DELETE FROM coupons WHERE tenant_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, tenantID, couponID)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
