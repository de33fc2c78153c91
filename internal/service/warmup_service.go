package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/edu-signal-api/pkg/errors"
	"github.com/noah-isme/edu-signal-api/pkg/jobs"
)

const warmupJobType = "class_warmup"

// ClassWarmer recomputes and caches the analytics of one class.
type ClassWarmer interface {
	WarmClass(ctx context.Context, classID string) error
}

// WarmupOptions tunes the warm-up queue.
type WarmupOptions struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// WarmupService precomputes class analytics in the background so dashboards read from cache.
type WarmupService struct {
	queue   *jobs.Queue
	warmers []ClassWarmer
	metrics *MetricsService
	logger  *zap.Logger
}

// NewWarmupService constructs the warm-up service and its queue. Call Start before Enqueue.
func NewWarmupService(opts WarmupOptions, metrics *MetricsService, logger *zap.Logger, warmers ...ClassWarmer) *WarmupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &WarmupService{warmers: warmers, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue("signal-warmup", s.handle, jobs.QueueConfig{
		Workers:    opts.Workers,
		BufferSize: 256,
		MaxRetries: opts.Retries,
		RetryDelay: opts.RetryDelay,
		Logger:     logger,
		OnFinish:   s.finished,
	})
	return s
}

// Start launches the workers.
func (s *WarmupService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *WarmupService) Stop() {
	s.queue.Stop()
}

// Enqueue schedules one warm-up job per class and returns the job ids.
func (s *WarmupService) Enqueue(ctx context.Context, classIDs []string) ([]string, error) {
	ids := make([]string, 0, len(classIDs))
	for _, classID := range classIDs {
		if err := ctx.Err(); err != nil {
			return ids, err
		}
		id := uuid.NewString()
		if err := s.queue.Enqueue(jobs.Job{ID: id, Type: warmupJobType, Payload: classID}); err != nil {
			s.metrics.RecordWarmupJob("rejected")
			if errors.Is(err, jobs.ErrQueueFull) {
				return ids, appErrors.Wrap(err, appErrors.ErrQueueFull.Code, appErrors.ErrQueueFull.Status, appErrors.ErrQueueFull.Message)
			}
			return ids, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue warm-up")
		}
		s.metrics.RecordWarmupJob("queued")
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *WarmupService) handle(ctx context.Context, job jobs.Job) error {
	classID, ok := job.Payload.(string)
	if !ok || classID == "" {
		return fmt.Errorf("invalid warm-up payload %T", job.Payload)
	}
	start := time.Now()
	for _, warmer := range s.warmers {
		if err := warmer.WarmClass(ctx, classID); err != nil {
			return fmt.Errorf("warm class %s: %w", classID, err)
		}
	}
	s.logger.Debug("class warmed", zap.String("class_id", classID), zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *WarmupService) finished(job jobs.Job, err error) {
	if err != nil {
		s.metrics.RecordWarmupJob("failed")
		return
	}
	s.metrics.RecordWarmupJob("succeeded")
}
