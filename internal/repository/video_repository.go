package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortoclub/platform-api/internal/models"
)

type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

const videoColumns = `id, tenant_id, bunny_video_id, library_id, title, status, created_by, created_at, updated_at`

func scanVideo(row interface{ Scan(dest ...any) error }) (*models.Video, error) {
	video := &models.Video{}
	err := row.Scan(
		&video.ID,
		&video.TenantID,
		&video.BunnyVideoID,
		&video.LibraryID,
		&video.Title,
		&video.Status,
		&video.CreatedBy,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return video, nil
}

// Create records a new video in uploading state.
func (r *VideoRepository) Create(ctx context.Context, tenantID, createdBy uuid.UUID, bunnyVideoID, libraryID, title string) (*models.Video, error) {
	query := `
		INSERT INTO videos (tenant_id, bunny_video_id, library_id, title, status, created_by)
		VALUES ($1, $2, $3, $4, 'uploading', $5)
		RETURNING ` + videoColumns

	video, err := scanVideo(r.pool.QueryRow(ctx, query, tenantID, bunnyVideoID, libraryID, title, createdBy))
	if err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	return video, nil
}

// GetByID retrieves a video within the tenant.
func (r *VideoRepository) GetByID(ctx context.Context, tenantID, videoID uuid.UUID) (*models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE tenant_id = $1 AND id = $2
	`

	video, err := scanVideo(r.pool.QueryRow(ctx, query, tenantID, videoID))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return video, nil
}

// ListByTenant returns the tenant's videos, newest first.
func (r *VideoRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.Video, error) {
	query := `
		SELECT ` + videoColumns + `
		FROM videos
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, *video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// statusRank orders transcoding states. Status only moves forward;
// "failed" is terminal until a re-upload replaces the video.
var statusRank = map[models.VideoStatus]int{
	models.VideoStatusUploading:  0,
	models.VideoStatusProcessing: 1,
	models.VideoStatusReady:      2,
	models.VideoStatusFailed:     3,
}

// UpdateStatus advances a video's transcoding status. Regressions reported
// by a stale CDN poll are ignored.
func (r *VideoRepository) UpdateStatus(ctx context.Context, tenantID, videoID uuid.UUID, status models.VideoStatus) (*models.Video, error) {
	video, err := r.GetByID(ctx, tenantID, videoID)
	if err != nil {
		return nil, err
	}

	if statusRank[status] <= statusRank[video.Status] {
		return video, nil
	}

	query := `
		UPDATE videos
		SET status = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING ` + videoColumns

	updated, err := scanVideo(r.pool.QueryRow(ctx, query, tenantID, videoID, status))
	if err != nil {
		return nil, fmt.Errorf("failed to update video status: %w", err)
	}

	return updated, nil
}

// Delete removes a video row within the tenant.
func (r *VideoRepository) Delete(ctx context.Context, tenantID, videoID uuid.UUID) error {
	query := `DELETE FROM videos WHERE tenant_id = $1 AND id = $2`

	tag, err := r.pool.Exec(ctx, query, tenantID, videoID)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
