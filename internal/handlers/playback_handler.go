package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/access"
	"github.com/ortoclub/platform-api/internal/middleware"
	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/playback"
	"github.com/ortoclub/platform-api/internal/repository"
)

// LessonStore looks up a single lesson within a tenant.
type LessonStore interface {
	GetLesson(ctx context.Context, tenantID, lessonID uuid.UUID) (*models.Lesson, error)
}

// VideoStore looks up a tenant's video record.
type VideoStore interface {
	GetByID(ctx context.Context, tenantID, videoID uuid.UUID) (*models.Video, error)
}

// PlaybackHandler issues signed embed URLs and viewer watermarks. This is
// the only place playback credentials are minted, and it runs the paid gate
// itself even though the route group already did: backend checks never
// trust an outer layer.
type PlaybackHandler struct {
	lessons     LessonStore
	videos      VideoStore
	signer      *playback.Signer
	watermarker *playback.Watermarker
	tokenTTL    time.Duration
}

func NewPlaybackHandler(
	lessons LessonStore,
	videos VideoStore,
	signer *playback.Signer,
	watermarker *playback.Watermarker,
	tokenTTL time.Duration,
) *PlaybackHandler {
	return &PlaybackHandler{
		lessons:     lessons,
		videos:      videos,
		signer:      signer,
		watermarker: watermarker,
		tokenTTL:    tokenTTL,
	}
}

// GetPlayback returns a signed embed URL for a lesson's video. Free-preview
// lessons play for any member; everything else requires full entitlement.
func (h *PlaybackHandler) GetPlayback(c *gin.Context) {
	s := middleware.ScopeFromContext(c)
	user := middleware.UserFromContext(c)
	if s == nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated", "redirect": "/sign-in"})
		return
	}

	lessonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson id"})
		return
	}

	lesson, err := h.lessons.GetLesson(c.Request.Context(), s.TenantID, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lesson not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get lesson"})
		return
	}

	if !lesson.FreePreview {
		decision := access.Evaluate(access.Input{
			User:           user,
			Tenant:         middleware.TenantFromContext(c),
			MembershipRole: s.MembershipRole,
			Route:          access.RouteClassPaid,
		})
		if !decision.Allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "access denied",
				"reason":   string(decision.Reason),
				"redirect": decision.Redirect,
			})
			return
		}
	}

	if lesson.VideoID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lesson has no video"})
		return
	}

	video, err := h.videos.GetByID(c.Request.Context(), s.TenantID, *lesson.VideoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}

	if video.Status != models.VideoStatusReady {
		c.JSON(http.StatusConflict, gin.H{"error": "video is not ready", "status": string(video.Status)})
		return
	}

	signed, err := h.signer.SignEmbedURL(video.BunnyVideoID, h.tokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign playback url")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authorize playback"})
		return
	}

	resp := models.PlaybackResponse{
		EmbedURL:  signed.URL,
		ExpiresAt: signed.ExpiresAt,
	}

	// The watermark needs the viewer's CPF; a profile without one plays
	// unmarked rather than being blocked, but the gap is logged.
	if user.CPF != "" {
		mark, err := h.watermarker.Derive(user.CPF)
		if err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to derive watermark")
		} else {
			resp.Watermark = mark
		}
	} else {
		log.Warn().Str("user_id", user.ID.String()).Msg("playback without watermark: user has no cpf on record")
	}

	c.JSON(http.StatusOK, resp)
}
