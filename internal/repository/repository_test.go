package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortoclub/platform-api/internal/models"
)

// Integration tests run against a throwaway Postgres with the migrations
// applied. Set TEST_DATABASE_URL to enable them.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(),
		`TRUNCATE lessons, courses, videos, waitlist_entries, coupons, tenant_memberships, users, tenants CASCADE`)
	require.NoError(t, err)

	return pool
}

func createTenant(t *testing.T, pool *pgxpool.Pool, slug string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO tenants (slug, display_name) VALUES ($1, $2) RETURNING id`,
		slug, slug).Scan(&id)
	require.NoError(t, err)
	return id
}

func createUser(t *testing.T, pool *pgxpool.Pool, externalID string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (external_id, email) VALUES ($1, $2) RETURNING id`,
		externalID, externalID+"@example.com").Scan(&id)
	require.NoError(t, err)
	return id
}

func TestCouponTenantIsolation(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCouponRepository(pool)

	tenantA := createTenant(t, pool, "clinic-a")
	tenantB := createTenant(t, pool, "clinic-b")

	req := &models.CreateCouponRequest{Code: "LAUNCH50", Type: "percentage", Value: 50, Active: true}

	// The same code is valid in both tenants.
	_, err := repo.Create(ctx, tenantA, "LAUNCH50", models.CouponTypePercentage, req)
	require.NoError(t, err)
	_, err = repo.Create(ctx, tenantB, "LAUNCH50", models.CouponTypePercentage, req)
	require.NoError(t, err)

	// But duplicated within one, even with different casing.
	_, err = repo.Create(ctx, tenantA, "launch50", models.CouponTypePercentage, req)
	assert.ErrorIs(t, err, ErrDuplicate)

	// Lookups never cross the tenant boundary.
	coupon, err := repo.GetByCode(ctx, tenantA, "launch50")
	require.NoError(t, err)
	assert.Equal(t, tenantA, coupon.TenantID)

	listA, err := repo.ListByTenant(ctx, tenantA)
	require.NoError(t, err)
	assert.Len(t, listA, 1)
}

func TestCouponUpdateScopedToTenant(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCouponRepository(pool)

	tenantA := createTenant(t, pool, "clinic-a")
	tenantB := createTenant(t, pool, "clinic-b")

	coupon, err := repo.Create(ctx, tenantA, "LAUNCH50", models.CouponTypePercentage,
		&models.CreateCouponRequest{Code: "LAUNCH50", Type: "percentage", Value: 50, Active: true})
	require.NoError(t, err)

	// Another tenant's admin cannot touch the coupon even with its id.
	inactive := false
	_, err = repo.Update(ctx, tenantB, coupon.ID, &models.UpdateCouponRequest{Active: &inactive})
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, tenantB, coupon.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, tenantA, coupon.ID)
	assert.NoError(t, err)
}

func TestWaitlistDuplicateEmail(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewWaitlistRepository(pool)

	tenantA := createTenant(t, pool, "clinic-a")
	tenantB := createTenant(t, pool, "clinic-b")

	entry := &models.WaitlistEntry{
		Name:           "Ana",
		Email:          "ana@example.com",
		Whatsapp:       "+5511999999999",
		ResidencyLevel: models.ResidencyLevelR2,
		Subspecialty:   "knee",
	}

	_, err := repo.Create(ctx, tenantA, entry)
	require.NoError(t, err)

	// Same email, different casing: still a duplicate within the tenant.
	dup := *entry
	dup.Email = "ANA@example.com"
	_, err = repo.Create(ctx, tenantA, &dup)
	assert.ErrorIs(t, err, ErrDuplicate)

	// The same email can join another tenant's waitlist.
	_, err = repo.Create(ctx, tenantB, entry)
	require.NoError(t, err)

	count, err := repo.CountByTenant(ctx, tenantA)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUserUpsertByExternalID(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	created, err := repo.UpsertByExternalID(ctx, "ext-1", "ana@example.com", "Ana", "52998224725")
	require.NoError(t, err)
	assert.Equal(t, "52998224725", created.CPF)

	// A paid flag set by an admin survives subsequent session exchanges.
	paid := true
	status := "paid"
	_, err = repo.UpdateFlags(ctx, created.ID, &models.UpdateUserRequest{Paid: &paid, PaymentStatus: &status})
	require.NoError(t, err)

	// A login whose token carries no cpf must not erase the recorded one.
	again, err := repo.UpsertByExternalID(ctx, "ext-1", "ana.new@example.com", "Ana Souza", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "ana.new@example.com", again.Email)
	assert.Equal(t, "52998224725", again.CPF)
	assert.True(t, again.Paid)
	assert.Equal(t, models.PaymentStatusPaid, again.PaymentStatus)
}

func TestUserCPFAdminCorrection(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	created, err := repo.UpsertByExternalID(ctx, "ext-1", "ana@example.com", "Ana", "")
	require.NoError(t, err)
	assert.Empty(t, created.CPF)

	cpf := "529.982.247-25"
	updated, err := repo.UpdateFlags(ctx, created.ID, &models.UpdateUserRequest{CPF: &cpf})
	require.NoError(t, err)
	assert.Equal(t, cpf, updated.CPF)
}

func TestMembershipEnsureIdempotent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewMembershipRepository(pool)

	tenantA := createTenant(t, pool, "clinic-a")
	userID := createUser(t, pool, "ext-1")

	role, err := repo.Ensure(ctx, tenantA, userID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipRoleMember, role)

	require.NoError(t, repo.SetRole(ctx, tenantA, userID, models.MembershipRoleAdmin))

	// Ensure never downgrades an admin back to member.
	role, err = repo.Ensure(ctx, tenantA, userID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipRoleAdmin, role)
}

func TestVideoStatusOnlyMovesForward(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewVideoRepository(pool)

	tenantA := createTenant(t, pool, "clinic-a")
	userID := createUser(t, pool, "ext-1")

	video, err := repo.Create(ctx, tenantA, userID, "guid-1", "12345", "Knee Anatomy")
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusUploading, video.Status)

	video, err = repo.UpdateStatus(ctx, tenantA, video.ID, models.VideoStatusReady)
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusReady, video.Status)

	// A stale poll reporting "processing" must not regress a ready video.
	video, err = repo.UpdateStatus(ctx, tenantA, video.ID, models.VideoStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.VideoStatusReady, video.Status)
}

func TestLessonNeverAttachesAcrossTenants(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCourseRepository(pool)

	tenantA := createTenant(t, pool, "clinic-a")
	tenantB := createTenant(t, pool, "clinic-b")

	course, err := repo.CreateCourse(ctx, tenantA, "Trauma", "trauma", 0)
	require.NoError(t, err)

	req := &models.CreateLessonRequest{Title: "Intro", Position: 0}

	// Tenant B cannot attach lessons to tenant A's course.
	_, err = repo.CreateLesson(ctx, tenantB, course.ID, req)
	assert.ErrorIs(t, err, ErrNotFound)

	lesson, err := repo.CreateLesson(ctx, tenantA, course.ID, req)
	require.NoError(t, err)
	assert.Equal(t, tenantA, lesson.TenantID)

	fromB, err := repo.ListLessons(ctx, tenantB, course.ID)
	require.NoError(t, err)
	assert.Empty(t, fromB)

	_, err = repo.GetLesson(ctx, tenantB, lesson.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVideoLookupScopedToTenant(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewVideoRepository(pool)

	tenantA := createTenant(t, pool, "clinic-a")
	tenantB := createTenant(t, pool, "clinic-b")
	userID := createUser(t, pool, "ext-1")

	video, err := repo.Create(ctx, tenantA, userID, "guid-1", "12345", "Knee Anatomy")
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, tenantB, video.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, tenantB, video.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// A foreign key failure must not be misreported as a duplicate.
func TestCreateCouponForMissingTenantFails(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCouponRepository(pool)

	_, err := repo.Create(ctx, uuid.New(), "LAUNCH50", models.CouponTypePercentage,
		&models.CreateCouponRequest{Code: "LAUNCH50", Type: "percentage", Value: 50, Active: true})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
}
