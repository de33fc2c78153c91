package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-signal-api/internal/dto"
	"github.com/noah-isme/edu-signal-api/internal/models"
	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
	"github.com/noah-isme/edu-signal-api/pkg/response"
)

type insightService interface {
	Payload(ctx context.Context, kind dto.InsightKind, id string) (*dto.InsightEnvelope, error)
	Generate(ctx context.Context, kind dto.InsightKind, id string) (*models.Narrative, error)
}

type warmupService interface {
	Enqueue(ctx context.Context, classIDs []string) ([]string, error)
}

// InsightHandler exposes insight payloads, narrative generation and cache warm-up.
type InsightHandler struct {
	insights insightService
	warmup   warmupService
}

// NewInsightHandler constructs the handler. warmup may be nil when warm-up is disabled.
func NewInsightHandler(insights insightService, warmup warmupService) *InsightHandler {
	return &InsightHandler{insights: insights, warmup: warmup}
}

// Payload godoc
// @Summary Structured insight payload for the narrative generator
// @Tags Insights
// @Produce json
// @Param kind path string true "student, class or teacher"
// @Param id path string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /signals/insights/{kind}/{id}/payload [get]
func (h *InsightHandler) Payload(c *gin.Context) {
	if h.insights == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	envelope, err := h.insights.Payload(c.Request.Context(), dto.InsightKind(c.Param("kind")), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, envelope, false, nil)
}

// Generate godoc
// @Summary Generate a narrative for an entity
// @Tags Insights
// @Produce json
// @Param kind path string true "student, class or teacher"
// @Param id path string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /signals/insights/{kind}/{id} [post]
func (h *InsightHandler) Generate(c *gin.Context) {
	if h.insights == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	narrative, err := h.insights.Generate(c.Request.Context(), dto.InsightKind(c.Param("kind")), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, start, narrative, false, nil)
}

// Warmup godoc
// @Summary Queue background recomputation of class analytics
// @Tags Insights
// @Accept json
// @Produce json
// @Param payload body dto.WarmupRequest true "Classes to warm"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /signals/warmup [post]
func (h *InsightHandler) Warmup(c *gin.Context) {
	if h.warmup == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "warm-up is disabled"))
		return
	}
	var req dto.WarmupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	ids, err := h.warmup.Enqueue(c.Request.Context(), req.ClassIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, dto.WarmupResponse{JobIDs: ids})
}
