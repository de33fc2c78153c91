package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-signal-api/internal/models"
	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
	"github.com/noah-isme/edu-signal-api/pkg/response"
)

type performanceService interface {
	ClassPerformance(ctx context.Context, classID string) (*models.ClassAggregate, bool, error)
	TeacherPerformance(ctx context.Context, teacherID string) (*models.TeacherAggregate, bool, error)
	CompareClasses(ctx context.Context, schoolID string) ([]models.ClassComparison, bool, error)
	CompareTeachers(ctx context.Context, schoolID string) ([]models.TeacherComparison, bool, error)
	ExportClassComparison(ctx context.Context, schoolID string) ([]byte, error)
}

// PerformanceHandler exposes class, teacher and school aggregates.
type PerformanceHandler struct {
	performance performanceService
}

// NewPerformanceHandler constructs the performance handler.
func NewPerformanceHandler(performance performanceService) *PerformanceHandler {
	return &PerformanceHandler{performance: performance}
}

// Class godoc
// @Summary Aggregate performance of a class
// @Tags Performance
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /signals/classes/{classId}/performance [get]
func (h *PerformanceHandler) Class(c *gin.Context) {
	if h.performance == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	agg, cacheHit, err := h.performance.ClassPerformance(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var extra map[string]interface{}
	if agg == nil {
		extra = map[string]interface{}{"message": "no graded work for this class"}
	}
	respond(c, start, agg, cacheHit, extra)
}

// Teacher godoc
// @Summary Aggregate performance across the classes of a teacher
// @Tags Performance
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /signals/teachers/{teacherId}/performance [get]
func (h *PerformanceHandler) Teacher(c *gin.Context) {
	if h.performance == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	agg, cacheHit, err := h.performance.TeacherPerformance(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	var extra map[string]interface{}
	if agg == nil {
		extra = map[string]interface{}{"message": "teacher has no classes"}
	}
	respond(c, start, agg, cacheHit, extra)
}

// SchoolClasses godoc
// @Summary Rank the classes of a school by mean grade
// @Tags Performance
// @Produce json
// @Produce text/csv
// @Param schoolId path string true "School ID"
// @Param format query string false "csv for a CSV download"
// @Success 200 {object} response.Envelope
// @Router /signals/schools/{schoolId}/classes [get]
func (h *PerformanceHandler) SchoolClasses(c *gin.Context) {
	if h.performance == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	schoolID := c.Param("schoolId")
	switch strings.ToLower(strings.TrimSpace(c.Query("format"))) {
	case "", "json":
	case "csv":
		data, err := h.performance.ExportClassComparison(c.Request.Context(), schoolID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.CSV(c, "class-comparison-"+schoolID+".csv", data)
		return
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be json or csv"))
		return
	}

	start := time.Now()
	rows, cacheHit, err := h.performance.CompareClasses(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, rows, cacheHit, map[string]interface{}{"total": len(rows)})
}

// SchoolTeachers godoc
// @Summary Rank the active teachers of a school by mean grade
// @Tags Performance
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} response.Envelope
// @Router /signals/schools/{schoolId}/teachers [get]
func (h *PerformanceHandler) SchoolTeachers(c *gin.Context) {
	if h.performance == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	rows, cacheHit, err := h.performance.CompareTeachers(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, rows, cacheHit, map[string]interface{}{"total": len(rows)})
}
