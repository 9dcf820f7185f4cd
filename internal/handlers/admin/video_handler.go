package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/bunny"
	"github.com/ortoclub/platform-api/internal/cache"
	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/repository"
)

const videoStatusCacheTTL = 30 * time.Second

type VideoHandler struct {
	videoRepo   *repository.VideoRepository
	bunnyClient *bunny.Client
	redisClient *cache.Client
}

func NewVideoHandler(videoRepo *repository.VideoRepository, bunnyClient *bunny.Client, redisClient *cache.Client) *VideoHandler {
	return &VideoHandler{
		videoRepo:   videoRepo,
		bunnyClient: bunnyClient,
		redisClient: redisClient,
	}
}

// Create registers a video on the CDN and records it locally in uploading
// state. The upload itself goes straight from the admin's browser to the
// returned upload URL; the file never passes through this service.
func (h *VideoHandler) Create(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	var req models.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guid, uploadURL, err := h.bunnyClient.CreateVideo(c.Request.Context(), req.Title)
	if err != nil {
		log.Error().Err(err).Str("tenant", s.TenantSlug).Msg("failed to create video on CDN")
		c.JSON(http.StatusBadGateway, gin.H{"error": "video service unavailable"})
		return
	}

	video, err := h.videoRepo.Create(c.Request.Context(), s.TenantID, s.UserID, guid, h.bunnyClient.LibraryID(), req.Title)
	if err != nil {
		log.Error().Err(err).Str("bunny_video_id", guid).Msg("failed to record video")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create video"})
		return
	}

	c.JSON(http.StatusCreated, models.CreateVideoResponse{
		Video:     *video,
		UploadURL: uploadURL,
	})
}

func (h *VideoHandler) List(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	videos, err := h.videoRepo.ListByTenant(c.Request.Context(), s.TenantID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list videos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// RefreshStatus polls the CDN for a video's transcoding state and advances
// the local record. A short Redis cache absorbs dashboard polling; a cache
// miss or Redis outage just means one more CDN call.
func (h *VideoHandler) RefreshStatus(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	video, err := h.videoRepo.GetByID(c.Request.Context(), s.TenantID, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get video"})
		return
	}

	if video.Status == models.VideoStatusReady {
		c.JSON(http.StatusOK, video)
		return
	}

	if cached, err := h.redisClient.GetVideoStatus(c.Request.Context(), video.BunnyVideoID); err == nil && cached == string(video.Status) {
		c.JSON(http.StatusOK, video)
		return
	}

	status, err := h.bunnyClient.GetVideoStatus(c.Request.Context(), video.BunnyVideoID)
	if err != nil {
		log.Warn().Err(err).Str("bunny_video_id", video.BunnyVideoID).Msg("failed to poll video status")
		c.JSON(http.StatusBadGateway, gin.H{"error": "video service unavailable"})
		return
	}

	if err := h.redisClient.SetVideoStatus(c.Request.Context(), video.BunnyVideoID, string(status), videoStatusCacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache video status")
	}

	updated, err := h.videoRepo.UpdateStatus(c.Request.Context(), s.TenantID, videoID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update video status"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes the video from the CDN library and then the local record.
func (h *VideoHandler) Delete(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	video, err := h.videoRepo.GetByID(c.Request.Context(), s.TenantID, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get video"})
		return
	}

	if err := h.bunnyClient.DeleteVideo(c.Request.Context(), video.BunnyVideoID); err != nil {
		log.Error().Err(err).Str("bunny_video_id", video.BunnyVideoID).Msg("failed to delete video on CDN")
		c.JSON(http.StatusBadGateway, gin.H{"error": "video service unavailable"})
		return
	}

	if err := h.videoRepo.Delete(c.Request.Context(), s.TenantID, videoID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete video"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "video deleted"})
}
