package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-signal-api/internal/dto"
	"github.com/noah-isme/edu-signal-api/internal/middleware"
	"github.com/noah-isme/edu-signal-api/internal/models"
	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
	"github.com/noah-isme/edu-signal-api/pkg/response"
)

type signalService interface {
	PredictPerformance(ctx context.Context, studentID, classID string) (models.Prediction, bool, error)
	Recommendations(ctx context.Context, studentID, classID string) (models.Recommendations, bool, error)
	StudentGradeBuckets(ctx context.Context, studentID, classID string) (models.GradeHistogram, bool, error)
	AtRiskStudents(ctx context.Context, classID string) (models.BatchResult[models.RiskAssessment], bool, error)
	PredictChurn(ctx context.Context, classID string) (models.BatchResult[models.ChurnRisk], bool, error)
	ClusterStudents(ctx context.Context, classID string) (models.ClusterSummary, bool, error)
	ClassFeedbackSentiment(ctx context.Context, classID string) (models.FeedbackSentimentSummary, bool, error)
	ClassifyText(text string) models.Sentiment
}

// SignalHandler exposes per-student and per-class signal endpoints.
type SignalHandler struct {
	signals signalService
}

// NewSignalHandler constructs the signal handler.
func NewSignalHandler(signals signalService) *SignalHandler {
	return &SignalHandler{signals: signals}
}

// Prediction godoc
// @Summary Forecast the next grade of a student
// @Tags Signals
// @Produce json
// @Param studentId path string true "Student ID"
// @Param class_id query string false "Restrict to one class"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /signals/students/{studentId}/prediction [get]
func (h *SignalHandler) Prediction(c *gin.Context) {
	if h.signals == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, cacheHit, err := h.signals.PredictPerformance(c.Request.Context(), c.Param("studentId"), classFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, result, cacheHit, nil)
}

// Recommendations godoc
// @Summary Adaptive study recommendations for a student
// @Tags Signals
// @Produce json
// @Param studentId path string true "Student ID"
// @Param class_id query string false "Restrict to one class"
// @Success 200 {object} response.Envelope
// @Router /signals/students/{studentId}/recommendations [get]
func (h *SignalHandler) Recommendations(c *gin.Context) {
	if h.signals == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, cacheHit, err := h.signals.Recommendations(c.Request.Context(), c.Param("studentId"), classFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, result, cacheHit, nil)
}

// Buckets godoc
// @Summary Grade histogram of a student
// @Tags Signals
// @Produce json
// @Param studentId path string true "Student ID"
// @Param class_id query string false "Restrict to one class"
// @Success 200 {object} response.Envelope
// @Router /signals/students/{studentId}/buckets [get]
func (h *SignalHandler) Buckets(c *gin.Context) {
	if h.signals == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, cacheHit, err := h.signals.StudentGradeBuckets(c.Request.Context(), c.Param("studentId"), classFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, result, cacheHit, nil)
}

// Risks godoc
// @Summary Students at academic risk in a class
// @Tags Signals
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /signals/classes/{classId}/risks [get]
func (h *SignalHandler) Risks(c *gin.Context) {
	if h.signals == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, cacheHit, err := h.signals.AtRiskStudents(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, result, cacheHit, map[string]interface{}{"partial": result.Partial()})
}

// Churn godoc
// @Summary Students whose activity has lapsed
// @Tags Signals
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /signals/classes/{classId}/churn [get]
func (h *SignalHandler) Churn(c *gin.Context) {
	if h.signals == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, cacheHit, err := h.signals.PredictChurn(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, result, cacheHit, map[string]interface{}{"partial": result.Partial()})
}

// Clusters godoc
// @Summary Performance tiers of a class
// @Tags Signals
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /signals/classes/{classId}/clusters [get]
func (h *SignalHandler) Clusters(c *gin.Context) {
	if h.signals == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, cacheHit, err := h.signals.ClusterStudents(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, result, cacheHit, map[string]interface{}{"partial": len(result.Failures) > 0})
}

// Sentiment godoc
// @Summary Sentiment of the feedback comments of a class
// @Tags Signals
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /signals/classes/{classId}/sentiment [get]
func (h *SignalHandler) Sentiment(c *gin.Context) {
	if h.signals == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	result, cacheHit, err := h.signals.ClassFeedbackSentiment(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, result, cacheHit, nil)
}

// ClassifyText godoc
// @Summary Classify the sentiment of free text
// @Tags Signals
// @Accept json
// @Produce json
// @Param payload body dto.SentimentRequest true "Text to classify"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /signals/sentiment [post]
func (h *SignalHandler) ClassifyText(c *gin.Context) {
	if h.signals == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.SentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	start := time.Now()
	respond(c, start, h.signals.ClassifyText(req.Text), false, nil)
}

func classFilter(c *gin.Context) string {
	return strings.TrimSpace(c.Query("class_id"))
}

// respond writes data with cache and timing metadata.
func respond(c *gin.Context, start time.Time, data interface{}, cacheHit bool, extra map[string]interface{}) {
	middleware.SetCacheHit(c, cacheHit)
	for k, v := range extra {
		middleware.SetMeta(c, k, v)
	}
	middleware.StampProcessingTime(c, start)
	response.JSON(c, http.StatusOK, data, middleware.ExtractMeta(c))
}
