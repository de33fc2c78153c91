package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

const (
	scopeStudent = "student"
	scopeClass   = "class"
	scopeTeacher = "teacher"
)

// fanOutPolicy bounds the per-entity history fetches of a batch.
type fanOutPolicy struct {
	workers int
	timeout time.Duration
	logger  *zap.Logger
	metrics *MetricsService
}

// fetched is the value produced for one entity of a batch.
type fetched[K any, V any] struct {
	Key   K
	Value V
}

// fanOut runs fetch for every key on at most policy.workers goroutines. Each
// fetch gets its own deadline. A failing fetch is recorded as an EntityFailure
// and never cancels its siblings. Both returned slices keep input order.
func fanOut[K any, V any](ctx context.Context, policy fanOutPolicy, scope string, keys []K, id func(K) string, fetch func(context.Context, K) (V, error)) ([]fetched[K, V], []models.EntityFailure) {
	values := make([]V, len(keys))
	errs := make([]error, len(keys))

	var g errgroup.Group
	if policy.workers > 0 {
		g.SetLimit(policy.workers)
	}
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			fctx := ctx
			if policy.timeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(ctx, policy.timeout)
				defer cancel()
			}
			values[i], errs[i] = fetch(fctx, key)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]fetched[K, V], 0, len(keys))
	failures := make([]models.EntityFailure, 0)
	for i, key := range keys {
		if errs[i] != nil {
			entityID := id(key)
			policy.metrics.RecordFetchFailure(scope)
			if policy.logger != nil {
				policy.logger.Warn("history fetch failed",
					zap.String("scope", scope),
					zap.String("entity_id", entityID),
					zap.Error(errs[i]),
				)
			}
			failures = append(failures, models.EntityFailure{EntityID: entityID, Scope: scope, Error: errs[i].Error()})
			continue
		}
		out = append(out, fetched[K, V]{Key: key, Value: values[i]})
	}
	return out, failures
}

// totalOutage reports a batch in which every entity failed.
func totalOutage(attempted int, failures []models.EntityFailure) bool {
	return attempted > 0 && len(failures) == attempted
}

func memberID(m models.ClassMember) string {
	return m.StudentID
}
