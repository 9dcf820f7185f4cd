package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ortoclub/platform-api/internal/access"
	"github.com/ortoclub/platform-api/internal/middleware"
	"github.com/ortoclub/platform-api/internal/models"
)

// CourseCatalog is the tenant-scoped course listing the content surface
// reads from.
type CourseCatalog interface {
	ListCourses(ctx context.Context, tenantID uuid.UUID) ([]models.Course, error)
	ListLessons(ctx context.Context, tenantID, courseID uuid.UUID) ([]models.Lesson, error)
}

// ContentHandler serves the member-facing course catalog.
type ContentHandler struct {
	catalog CourseCatalog
}

func NewContentHandler(catalog CourseCatalog) *ContentHandler {
	return &ContentHandler{catalog: catalog}
}

// ListCourses lists the tenant's courses for the signed-in member.
func (h *ContentHandler) ListCourses(c *gin.Context) {
	s := middleware.ScopeFromContext(c)
	if s == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated", "redirect": "/sign-in"})
		return
	}

	courses, err := h.catalog.ListCourses(c.Request.Context(), s.TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// ListLessons lists a course's lessons. Members without an active
// entitlement still see the listing, but only free-preview lessons are
// marked playable for them; full playback is gated separately. An unknown
// course id within the tenant yields an empty list.
func (h *ContentHandler) ListLessons(c *gin.Context) {
	s := middleware.ScopeFromContext(c)
	if s == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated", "redirect": "/sign-in"})
		return
	}

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	lessons, err := h.catalog.ListLessons(c.Request.Context(), s.TenantID, courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list lessons"})
		return
	}

	entitled := access.Evaluate(access.Input{
		User:           middleware.UserFromContext(c),
		Tenant:         middleware.TenantFromContext(c),
		MembershipRole: s.MembershipRole,
		Route:          access.RouteClassPaid,
	}).Allowed

	type lessonView struct {
		models.Lesson
		Playable bool `json:"playable"`
	}

	views := make([]lessonView, 0, len(lessons))
	for _, l := range lessons {
		views = append(views, lessonView{
			Lesson:   l,
			Playable: l.VideoID != nil && (entitled || l.FreePreview),
		})
	}

	c.JSON(http.StatusOK, gin.H{"lessons": views})
}
