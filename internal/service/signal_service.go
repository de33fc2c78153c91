package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-signal-api/internal/analytics"
	"github.com/noah-isme/edu-signal-api/internal/models"
	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
)

// SignalOptions tunes caching and fan-out of the signal services.
type SignalOptions struct {
	Workers      int
	FetchTimeout time.Duration
	CacheTTL     time.Duration
}

// SignalService computes per-student signals for a class on top of the history provider.
type SignalService struct {
	history  HistoryProvider
	engine   *analytics.Engine
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	pool     fanOutPolicy
	cacheTTL time.Duration
	now      func() time.Time
}

// NewSignalService constructs a signal service.
func NewSignalService(history HistoryProvider, engine *analytics.Engine, cache *CacheService, metrics *MetricsService, logger *zap.Logger, opts SignalOptions) *SignalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	return &SignalService{
		history:  history,
		engine:   engine,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		pool:     fanOutPolicy{workers: opts.Workers, timeout: opts.FetchTimeout, logger: logger, metrics: metrics},
		cacheTTL: opts.CacheTTL,
		now:      time.Now,
	}
}

// PredictPerformance forecasts the next grade of a student. classID may be empty to use every class.
func (s *SignalService) PredictPerformance(ctx context.Context, studentID, classID string) (models.Prediction, bool, error) {
	if strings.TrimSpace(studentID) == "" {
		return models.Prediction{}, false, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	key := makeSignalCacheKey("prediction", studentID, classID)
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (models.Prediction, error) {
		records, err := s.studentRecords(ctx, studentID, classID)
		if err != nil {
			return models.Prediction{}, err
		}
		defer s.observe("prediction", time.Now())
		return s.engine.Predict(s.engine.Snapshot(records)), nil
	})
}

// AtRiskStudents scores every member of a class and returns the flagged ones, highest risk first.
func (s *SignalService) AtRiskStudents(ctx context.Context, classID string) (models.BatchResult[models.RiskAssessment], bool, error) {
	if strings.TrimSpace(classID) == "" {
		return models.BatchResult[models.RiskAssessment]{}, false, appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}
	key := makeSignalCacheKey("risks", classID)
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (models.BatchResult[models.RiskAssessment], error) {
		result := models.BatchResult[models.RiskAssessment]{Items: []models.RiskAssessment{}, Failures: []models.EntityFailure{}}

		snapshots, failures, err := s.classSnapshots(ctx, classID)
		if err != nil {
			return result, err
		}
		defer s.observe("risk", time.Now())

		result.Failures = failures
		result.Evaluated = len(snapshots)
		for _, item := range snapshots {
			assessment, flagged := s.engine.AssessRisk(item.Key.StudentID, item.Value)
			if !flagged {
				continue
			}
			assessment.Name = item.Key.FullName
			assessment.Email = item.Key.Email
			result.Items = append(result.Items, *assessment)
		}
		analytics.SortRiskAssessments(result.Items)
		if len(snapshots) == 0 && len(failures) == 0 {
			result.Message = "no students in class"
		}
		return result, nil
	})
}

// ClusterStudents partitions the members of a class into performance tiers.
func (s *SignalService) ClusterStudents(ctx context.Context, classID string) (models.ClusterSummary, bool, error) {
	if strings.TrimSpace(classID) == "" {
		return models.ClusterSummary{}, false, appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}
	key := makeSignalCacheKey("clusters", classID)
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (models.ClusterSummary, error) {
		snapshots, failures, err := s.classSnapshots(ctx, classID)
		if err != nil {
			return models.ClusterSummary{}, err
		}
		defer s.observe("cluster", time.Now())

		students := make([]analytics.StudentSnapshot, 0, len(snapshots))
		for _, item := range snapshots {
			students = append(students, analytics.StudentSnapshot{
				StudentID: item.Key.StudentID,
				Name:      item.Key.FullName,
				Snapshot:  item.Value,
			})
		}
		summary := s.engine.Cluster(students)
		if len(failures) > 0 {
			summary.Failures = failures
		}
		return summary, nil
	})
}

// PredictChurn lists the members of a class whose activity has lapsed, longest lapse first.
// Activity counts submissions in any class, graded or not.
func (s *SignalService) PredictChurn(ctx context.Context, classID string) (models.BatchResult[models.ChurnRisk], bool, error) {
	if strings.TrimSpace(classID) == "" {
		return models.BatchResult[models.ChurnRisk]{}, false, appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}
	key := makeSignalCacheKey("churn", classID)
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (models.BatchResult[models.ChurnRisk], error) {
		result := models.BatchResult[models.ChurnRisk]{Items: []models.ChurnRisk{}, Failures: []models.EntityFailure{}}

		members, err := s.members(ctx, classID)
		if err != nil {
			return result, err
		}
		activity, failures := fanOut(ctx, s.pool, scopeStudent, members, memberID,
			func(ctx context.Context, m models.ClassMember) (*time.Time, error) {
				records, err := s.history.StudentSubmissions(ctx, m.StudentID, "")
				if err != nil {
					return nil, err
				}
				return analytics.LastActivity(records), nil
			})
		if totalOutage(len(members), failures) {
			return result, appErrors.Upstream(nil, "history unavailable for every student of the class")
		}
		defer s.observe("churn", time.Now())

		now := s.now()
		result.Failures = failures
		result.Evaluated = len(activity)
		for _, item := range activity {
			risk, flagged := s.engine.EvaluateChurn(analytics.StudentActivity{
				StudentID:    item.Key.StudentID,
				JoinedAt:     item.Key.JoinedAt,
				LastActivity: item.Value,
			}, now)
			if !flagged {
				continue
			}
			risk.Name = item.Key.FullName
			risk.Email = item.Key.Email
			result.Items = append(result.Items, *risk)
		}
		analytics.SortChurnRisks(result.Items)
		if len(members) == 0 {
			result.Message = "no students in class"
		}
		return result, nil
	})
}

// Recommendations suggests study actions for a student in a class.
func (s *SignalService) Recommendations(ctx context.Context, studentID, classID string) (models.Recommendations, bool, error) {
	if strings.TrimSpace(studentID) == "" {
		return models.Recommendations{}, false, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	key := makeSignalCacheKey("recommendations", studentID, classID)
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (models.Recommendations, error) {
		records, err := s.studentRecords(ctx, studentID, classID)
		if err != nil {
			return models.Recommendations{}, err
		}
		defer s.observe("recommendations", time.Now())
		return s.engine.Recommend(records), nil
	})
}

// StudentGradeBuckets counts a student's grades per bucket. A failed fetch yields empty buckets.
func (s *SignalService) StudentGradeBuckets(ctx context.Context, studentID, classID string) (models.GradeHistogram, bool, error) {
	if strings.TrimSpace(studentID) == "" {
		return models.GradeHistogram{}, false, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	key := makeSignalCacheKey("buckets", studentID, classID)
	buckets, hit, err := cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (models.GradeHistogram, error) {
		records, err := s.studentRecords(ctx, studentID, classID)
		if err != nil {
			return models.GradeHistogram{}, err
		}
		return s.engine.GradeHistogram(records), nil
	})
	if err != nil {
		s.logger.Warn("grade buckets unavailable", zap.String("student_id", studentID), zap.Error(err))
		return models.GradeHistogram{}, false, nil
	}
	return buckets, hit, nil
}

// ClassFeedbackSentiment classifies every feedback comment of a class.
func (s *SignalService) ClassFeedbackSentiment(ctx context.Context, classID string) (models.FeedbackSentimentSummary, bool, error) {
	if strings.TrimSpace(classID) == "" {
		return models.FeedbackSentimentSummary{}, false, appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}
	key := makeSignalCacheKey("sentiment", classID)
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (models.FeedbackSentimentSummary, error) {
		start := time.Now()
		records, err := s.history.ClassFeedback(ctx, classID)
		if err != nil {
			s.metrics.RecordFetchFailure(scopeClass)
			return models.FeedbackSentimentSummary{}, appErrors.Upstream(err, "failed to load class feedback")
		}
		defer s.observe("sentiment", start)
		return s.engine.SummariseFeedback(records), nil
	})
}

// ClassifyText scores a single piece of free text.
func (s *SignalService) ClassifyText(text string) models.Sentiment {
	return s.engine.ClassifySentiment(text)
}

var warmedClassSignals = []string{"risks", "clusters", "churn", "sentiment"}

// WarmClass recomputes the cached class-level signals.
func (s *SignalService) WarmClass(ctx context.Context, classID string) error {
	keys := make([]string, 0, len(warmedClassSignals))
	for _, kind := range warmedClassSignals {
		keys = append(keys, makeSignalCacheKey(kind, classID))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("warmup invalidate", zap.String("class_id", classID), zap.Error(err))
	}
	if _, _, err := s.AtRiskStudents(ctx, classID); err != nil {
		return err
	}
	if _, _, err := s.ClusterStudents(ctx, classID); err != nil {
		return err
	}
	if _, _, err := s.PredictChurn(ctx, classID); err != nil {
		return err
	}
	_, _, err := s.ClassFeedbackSentiment(ctx, classID)
	return err
}

func (s *SignalService) studentRecords(ctx context.Context, studentID, classID string) ([]models.SubmissionRecord, error) {
	records, err := s.history.StudentSubmissions(ctx, studentID, classID)
	if err != nil {
		s.metrics.RecordFetchFailure(scopeStudent)
		return nil, appErrors.Upstream(err, "failed to load student history")
	}
	return records, nil
}

func (s *SignalService) members(ctx context.Context, classID string) ([]models.ClassMember, error) {
	members, err := s.history.ClassMembers(ctx, classID)
	if err != nil {
		s.metrics.RecordFetchFailure(scopeClass)
		return nil, appErrors.Upstream(err, "failed to load class roster")
	}
	return members, nil
}

// classSnapshots extracts the class-scoped metrics of every member.
func (s *SignalService) classSnapshots(ctx context.Context, classID string) ([]fetched[models.ClassMember, models.StudentMetricsSnapshot], []models.EntityFailure, error) {
	members, err := s.members(ctx, classID)
	if err != nil {
		return nil, nil, err
	}
	snapshots, failures := fanOut(ctx, s.pool, scopeStudent, members, memberID,
		func(ctx context.Context, m models.ClassMember) (models.StudentMetricsSnapshot, error) {
			records, err := s.history.StudentSubmissions(ctx, m.StudentID, classID)
			if err != nil {
				return models.StudentMetricsSnapshot{}, err
			}
			return s.engine.Snapshot(records), nil
		})
	if totalOutage(len(members), failures) {
		return nil, failures, appErrors.Upstream(nil, "history unavailable for every student of the class")
	}
	return snapshots, failures, nil
}

func (s *SignalService) observe(analysis string, start time.Time) {
	s.metrics.ObserveAnalysis(analysis, time.Since(start))
}
