package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-signal-api/internal/analytics"
	"github.com/noah-isme/edu-signal-api/internal/models"
	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
	"github.com/noah-isme/edu-signal-api/pkg/export"
)

const defaultTeacherName = "Teacher"

var classComparisonHeaders = []string{
	"class_id", "class_name", "teacher_name", "avg_grade", "adjusted_avg", "std_dev", "trend",
	"total_students", "total_submissions", "total_xp", "consistency", "engagement",
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// PerformanceService builds class, teacher and school level aggregates.
type PerformanceService struct {
	history  HistoryProvider
	engine   *analytics.Engine
	cache    *CacheService
	metrics  *MetricsService
	csv      csvRenderer
	logger   *zap.Logger
	pool     fanOutPolicy
	cacheTTL time.Duration
	now      func() time.Time
}

// NewPerformanceService constructs a performance service.
func NewPerformanceService(history HistoryProvider, engine *analytics.Engine, cache *CacheService, metrics *MetricsService, csv csvRenderer, logger *zap.Logger, opts SignalOptions) *PerformanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	return &PerformanceService{
		history:  history,
		engine:   engine,
		cache:    cache,
		metrics:  metrics,
		csv:      csv,
		logger:   logger,
		pool:     fanOutPolicy{workers: opts.Workers, timeout: opts.FetchTimeout, logger: logger, metrics: metrics},
		cacheTTL: opts.CacheTTL,
		now:      time.Now,
	}
}

// ClassPerformance aggregates a class. A nil aggregate means the class has no graded work.
func (s *PerformanceService) ClassPerformance(ctx context.Context, classID string) (*models.ClassAggregate, bool, error) {
	if strings.TrimSpace(classID) == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "classId is required")
	}
	key := makeSignalCacheKey("performance", classID)
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (*models.ClassAggregate, error) {
		agg, err := s.classAggregate(ctx, classID)
		if err != nil {
			s.metrics.RecordFetchFailure(scopeClass)
			return nil, appErrors.Upstream(err, "failed to load class history")
		}
		return agg, nil
	})
}

// TeacherPerformance aggregates every class owned by a teacher. A nil aggregate means the teacher has no classes.
func (s *PerformanceService) TeacherPerformance(ctx context.Context, teacherID string) (*models.TeacherAggregate, bool, error) {
	if strings.TrimSpace(teacherID) == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "teacherId is required")
	}
	key := makeSignalCacheKey("teacher", teacherID)
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (*models.TeacherAggregate, error) {
		return s.teacherAggregate(ctx, teacherID)
	})
}

// CompareClasses ranks the classes of a school by mean grade. Classes without graded work are left out.
func (s *PerformanceService) CompareClasses(ctx context.Context, schoolID string) ([]models.ClassComparison, bool, error) {
	if strings.TrimSpace(schoolID) == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "schoolId is required")
	}
	key := makeSignalCacheKey("school", schoolID, "classes")
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) ([]models.ClassComparison, error) {
		classes, err := s.history.SchoolClasses(ctx, schoolID)
		if err != nil {
			s.metrics.RecordFetchFailure(scopeClass)
			return nil, appErrors.Upstream(err, "failed to load school classes")
		}
		aggregates, failures := fanOut(ctx, s.pool, scopeClass, classes,
			func(c models.SchoolClass) string { return c.ID },
			func(ctx context.Context, c models.SchoolClass) (*models.ClassAggregate, error) {
				return s.classAggregate(ctx, c.ID)
			})
		if totalOutage(len(classes), failures) {
			return nil, appErrors.Upstream(nil, "history unavailable for every class of the school")
		}
		defer s.observe("compare_classes", time.Now())

		out := make([]models.ClassComparison, 0, len(aggregates))
		for _, item := range aggregates {
			if item.Value == nil {
				continue
			}
			agg := *item.Value
			agg.ClassName = item.Key.Name
			name := item.Key.TeacherName
			if strings.TrimSpace(name) == "" {
				name = defaultTeacherName
			}
			out = append(out, models.ClassComparison{ClassAggregate: agg, TeacherName: name})
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Mean > out[j].Mean })
		return out, nil
	})
}

// CompareTeachers ranks the active teachers of a school by mean grade. Teachers without classes are left out.
func (s *PerformanceService) CompareTeachers(ctx context.Context, schoolID string) ([]models.TeacherComparison, bool, error) {
	if strings.TrimSpace(schoolID) == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "schoolId is required")
	}
	key := makeSignalCacheKey("school", schoolID, "teachers")
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) ([]models.TeacherComparison, error) {
		teachers, err := s.history.SchoolTeachers(ctx, schoolID)
		if err != nil {
			s.metrics.RecordFetchFailure(scopeTeacher)
			return nil, appErrors.Upstream(err, "failed to load school teachers")
		}
		aggregates, failures := fanOut(ctx, s.pool, scopeTeacher, teachers,
			func(t models.TeacherInfo) string { return t.ID },
			func(ctx context.Context, t models.TeacherInfo) (*models.TeacherAggregate, error) {
				return s.teacherAggregate(ctx, t.ID)
			})
		if totalOutage(len(teachers), failures) {
			return nil, appErrors.Upstream(nil, "history unavailable for every teacher of the school")
		}
		defer s.observe("compare_teachers", time.Now())

		out := make([]models.TeacherComparison, 0, len(aggregates))
		for _, item := range aggregates {
			if item.Value == nil {
				continue
			}
			out = append(out, models.TeacherComparison{TeacherAggregate: *item.Value, Name: item.Key.Name})
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Mean > out[j].Mean })
		return out, nil
	})
}

// WarmClass recomputes the cached aggregate of a class.
func (s *PerformanceService) WarmClass(ctx context.Context, classID string) error {
	if err := s.cache.Invalidate(ctx, makeSignalCacheKey("performance", classID)); err != nil {
		s.logger.Warn("warmup invalidate", zap.String("class_id", classID), zap.Error(err))
	}
	_, _, err := s.ClassPerformance(ctx, classID)
	return err
}

// ExportClassComparison renders the class ranking of a school as CSV.
func (s *PerformanceService) ExportClassComparison(ctx context.Context, schoolID string) ([]byte, error) {
	rows, _, err := s.CompareClasses(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{Headers: classComparisonHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"class_id":          row.ClassID,
			"class_name":        row.ClassName,
			"teacher_name":      row.TeacherName,
			"avg_grade":         formatDecimal(row.Mean),
			"adjusted_avg":      formatDecimal(row.AdjustedMean),
			"std_dev":           formatDecimal(row.StdDev),
			"trend":             string(row.Trend),
			"total_students":    strconv.Itoa(row.TotalStudents),
			"total_submissions": strconv.Itoa(row.TotalSubmissions),
			"total_xp":          strconv.Itoa(row.LedgerTotal),
			"consistency":       string(row.Consistency),
			"engagement":        string(row.Engagement),
		})
	}
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render class comparison")
	}
	return data, nil
}

// classAggregate reads the graded submissions of a class and the ledger of the
// students who produced them. Members without graded work add no XP.
func (s *PerformanceService) classAggregate(ctx context.Context, classID string) (*models.ClassAggregate, error) {
	records, err := s.history.ClassSubmissions(ctx, classID)
	if err != nil {
		return nil, err
	}
	ids := gradedStudentIDs(records)
	if len(ids) == 0 {
		return nil, nil
	}
	ledger, err := s.history.Ledger(ctx, ids)
	if err != nil {
		return nil, err
	}

	defer s.observe("class_aggregate", time.Now())
	agg := s.engine.AggregateClass(records, ledger, s.now())
	if agg != nil {
		agg.ClassID = classID
	}
	return agg, nil
}

func gradedStudentIDs(records []models.SubmissionRecord) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if !r.Graded() {
			continue
		}
		if _, ok := seen[r.StudentID]; ok {
			continue
		}
		seen[r.StudentID] = struct{}{}
		ids = append(ids, r.StudentID)
	}
	return ids
}

// teacherAggregate rolls up the classes of a teacher. A class whose history
// failed still counts towards TotalClasses and TotalActivities.
func (s *PerformanceService) teacherAggregate(ctx context.Context, teacherID string) (*models.TeacherAggregate, error) {
	classes, err := s.history.TeacherClasses(ctx, teacherID)
	if err != nil {
		s.metrics.RecordFetchFailure(scopeTeacher)
		return nil, appErrors.Upstream(err, "failed to load teacher classes")
	}

	var mu sync.Mutex
	counted := make(map[string]int, len(classes))
	rollups, failures := fanOut(ctx, s.pool, scopeClass, classes,
		func(c models.ClassInfo) string { return c.ID },
		func(ctx context.Context, c models.ClassInfo) (analytics.ClassRollup, error) {
			activities, err := s.history.CountClassActivities(ctx, c.ID)
			if err != nil {
				return analytics.ClassRollup{}, err
			}
			mu.Lock()
			counted[c.ID] = activities
			mu.Unlock()

			agg, err := s.classAggregate(ctx, c.ID)
			if err != nil {
				return analytics.ClassRollup{}, err
			}
			return analytics.ClassRollup{Class: c, Aggregate: agg, Activities: activities}, nil
		})
	if totalOutage(len(classes), failures) {
		return nil, appErrors.Upstream(nil, "history unavailable for every class of the teacher")
	}

	input := make([]analytics.ClassRollup, 0, len(classes))
	for _, item := range rollups {
		input = append(input, item.Value)
	}
	failed := make(map[string]struct{}, len(failures))
	for _, f := range failures {
		failed[f.EntityID] = struct{}{}
	}
	for _, c := range classes {
		if _, ok := failed[c.ID]; ok {
			input = append(input, analytics.ClassRollup{Class: c, Activities: counted[c.ID]})
		}
	}

	agg := s.engine.AggregateTeacher(teacherID, input)
	if agg != nil && len(failures) > 0 {
		agg.Failures = failures
	}
	return agg, nil
}

func (s *PerformanceService) observe(analysis string, start time.Time) {
	s.metrics.ObserveAnalysis(analysis, time.Since(start))
}

func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
