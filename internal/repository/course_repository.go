package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortoclub/platform-api/internal/models"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// CreateCourse inserts a course for the tenant.
func (r *CourseRepository) CreateCourse(ctx context.Context, tenantID uuid.UUID, title, slug string, position int) (*models.Course, error) {
	course := &models.Course{}

	query := `
		INSERT INTO courses (tenant_id, title, slug, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, tenant_id, title, slug, position, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, tenantID, title, slug, position).Scan(
		&course.ID, &course.TenantID, &course.Title, &course.Slug, &course.Position,
		&course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	return course, nil
}

// ListCourses returns the tenant's courses in display order.
func (r *CourseRepository) ListCourses(ctx context.Context, tenantID uuid.UUID) ([]models.Course, error) {
	query := `
		SELECT id, tenant_id, title, slug, position, created_at, updated_at
		FROM courses
		WHERE tenant_id = $1
		ORDER BY position, created_at
	`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Title, &c.Slug, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

// CreateLesson inserts a lesson under a course of the same tenant. The
// course is matched with the tenant predicate so a lesson can never be
// attached across tenants.
func (r *CourseRepository) CreateLesson(ctx context.Context, tenantID, courseID uuid.UUID, req *models.CreateLessonRequest) (*models.Lesson, error) {
	lesson := &models.Lesson{}

	query := `
		INSERT INTO lessons (tenant_id, course_id, title, video_id, position, free_preview)
		SELECT c.tenant_id, c.id, $3, $4, $5, $6
		FROM courses c
		WHERE c.tenant_id = $1 AND c.id = $2
		RETURNING id, tenant_id, course_id, title, video_id, position, free_preview, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, tenantID, courseID, req.Title, req.VideoID, req.Position, req.FreePreview).Scan(
		&lesson.ID, &lesson.TenantID, &lesson.CourseID, &lesson.Title, &lesson.VideoID,
		&lesson.Position, &lesson.FreePreview, &lesson.CreatedAt, &lesson.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	return lesson, nil
}

// ListLessons returns the lessons of a course within the tenant.
func (r *CourseRepository) ListLessons(ctx context.Context, tenantID, courseID uuid.UUID) ([]models.Lesson, error) {
	query := `
		SELECT id, tenant_id, course_id, title, video_id, position, free_preview, created_at, updated_at
		FROM lessons
		WHERE tenant_id = $1 AND course_id = $2
		ORDER BY position, created_at
	`

	rows, err := r.pool.Query(ctx, query, tenantID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.TenantID, &l.CourseID, &l.Title, &l.VideoID, &l.Position, &l.FreePreview, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lessons: %w", err)
	}

	return lessons, nil
}

// GetLesson retrieves a lesson within the tenant.
func (r *CourseRepository) GetLesson(ctx context.Context, tenantID, lessonID uuid.UUID) (*models.Lesson, error) {
	lesson := &models.Lesson{}

	query := `
		SELECT id, tenant_id, course_id, title, video_id, position, free_preview, created_at, updated_at
		FROM lessons
		WHERE tenant_id = $1 AND id = $2
	`

	err := r.pool.QueryRow(ctx, query, tenantID, lessonID).Scan(
		&lesson.ID, &lesson.TenantID, &lesson.CourseID, &lesson.Title, &lesson.VideoID,
		&lesson.Position, &lesson.FreePreview, &lesson.CreatedAt, &lesson.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	return lesson, nil
}
