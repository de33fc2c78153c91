package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-signal-api/internal/analytics"
	"github.com/noah-isme/edu-signal-api/internal/dto"
	"github.com/noah-isme/edu-signal-api/internal/models"
	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
)

// NarrativeGenerator turns an insight envelope into structured narrative text.
type NarrativeGenerator interface {
	GenerateNarrative(ctx context.Context, envelope dto.InsightEnvelope) (*models.Narrative, error)
}

// InsightService assembles insight payloads and forwards them to the narrative generator.
type InsightService struct {
	history     HistoryProvider
	engine      *analytics.Engine
	performance *PerformanceService
	generator   NarrativeGenerator
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewInsightService constructs an insight service. generator may be nil.
func NewInsightService(history HistoryProvider, engine *analytics.Engine, performance *PerformanceService, generator NarrativeGenerator, metrics *MetricsService, logger *zap.Logger) *InsightService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightService{
		history:     history,
		engine:      engine,
		performance: performance,
		generator:   generator,
		metrics:     metrics,
		logger:      logger,
	}
}

// Payload builds the insight envelope for an entity.
func (s *InsightService) Payload(ctx context.Context, kind dto.InsightKind, id string) (*dto.InsightEnvelope, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be one of student, class, teacher")
	}
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id is required")
	}

	subject, err := s.subject(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	envelope, err := s.engine.BuildInsight(subject)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build insight payload")
	}
	return &envelope, nil
}

// Generate builds the payload and asks the narrative generator for text.
func (s *InsightService) Generate(ctx context.Context, kind dto.InsightKind, id string) (*models.Narrative, error) {
	if s.generator == nil {
		return nil, appErrors.ErrNarrativeUnavailable
	}
	envelope, err := s.Payload(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	narrative, err := s.generator.GenerateNarrative(ctx, *envelope)
	if err != nil {
		s.logger.Error("narrative generation failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return nil, appErrors.Upstream(err, "narrative generation failed")
	}
	return narrative, nil
}

func (s *InsightService) subject(ctx context.Context, kind dto.InsightKind, id string) (analytics.InsightSubject, error) {
	switch kind {
	case dto.InsightStudent:
		return s.studentSubject(ctx, id)
	case dto.InsightClass:
		agg, _, err := s.performance.ClassPerformance(ctx, id)
		if err != nil {
			return nil, err
		}
		if agg == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class has no graded work")
		}
		return analytics.ClassInsightSubject{ClassID: id, Aggregate: *agg}, nil
	default:
		agg, _, err := s.performance.TeacherPerformance(ctx, id)
		if err != nil {
			return nil, err
		}
		if agg == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher has no classes")
		}
		return analytics.TeacherInsightSubject{TeacherID: id, Aggregate: *agg}, nil
	}
}

// studentSubject uses the student's history across every class. A missing
// profile only drops the name from the payload.
func (s *InsightService) studentSubject(ctx context.Context, studentID string) (analytics.InsightSubject, error) {
	records, err := s.history.StudentSubmissions(ctx, studentID, "")
	if err != nil {
		s.metrics.RecordFetchFailure(scopeStudent)
		return nil, appErrors.Upstream(err, "failed to load student history")
	}
	ledger, err := s.history.Ledger(ctx, []string{studentID})
	if err != nil {
		s.metrics.RecordFetchFailure(scopeStudent)
		return nil, appErrors.Upstream(err, "failed to load student ledger")
	}
	total := 0
	for _, entry := range ledger {
		total += entry.Amount
	}
	var name string
	profile, err := s.history.StudentProfile(ctx, studentID)
	if err != nil {
		s.logger.Warn("student profile unavailable", zap.String("student_id", studentID), zap.Error(err))
	} else if profile != nil {
		name = profile.FullName
	}

	snapshot := s.engine.Snapshot(records)
	return analytics.StudentInsightSubject{
		StudentID:   studentID,
		StudentName: name,
		Snapshot:    snapshot,
		Prediction:  s.engine.Predict(snapshot),
		LedgerTotal: total,
	}, nil
}
