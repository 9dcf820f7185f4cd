package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ortoclub/platform-api/internal/models"
	"github.com/ortoclub/platform-api/internal/repository"
	"github.com/ortoclub/platform-api/internal/utils"
)

type CourseHandler struct {
	courseRepo *repository.CourseRepository
	videoRepo  *repository.VideoRepository
}

func NewCourseHandler(courseRepo *repository.CourseRepository, videoRepo *repository.VideoRepository) *CourseHandler {
	return &CourseHandler{courseRepo: courseRepo, videoRepo: videoRepo}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slug := utils.NormalizeSlug(req.Title)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must contain letters or digits"})
		return
	}

	course, err := h.courseRepo.CreateCourse(c.Request.Context(), s.TenantID, req.Title, slug, req.Position)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "a course with this title already exists"})
			return
		}
		log.Error().Err(err).Str("tenant", s.TenantSlug).Msg("failed to create course")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	courses, err := h.courseRepo.ListCourses(c.Request.Context(), s.TenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list courses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// CreateLesson attaches a lesson to one of the tenant's courses. When a
// video is referenced it must already exist within the same tenant.
func (h *CourseHandler) CreateLesson(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	var req models.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.VideoID != nil {
		if _, err := h.videoRepo.GetByID(c.Request.Context(), s.TenantID, *req.VideoID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "video not found"})
			return
		}
	}

	lesson, err := h.courseRepo.CreateLesson(c.Request.Context(), s.TenantID, courseID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
			return
		}
		log.Error().Err(err).Str("course_id", courseID.String()).Msg("failed to create lesson")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create lesson"})
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

func (h *CourseHandler) ListLessons(c *gin.Context) {
	s, ok := requireAdminScope(c)
	if !ok {
		return
	}

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	lessons, err := h.courseRepo.ListLessons(c.Request.Context(), s.TenantID, courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list lessons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}
