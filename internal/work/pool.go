package work

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool size bounds
const (
	MinSize     = 8
	MaxSize     = 12
	DefaultSize = 10
)

// Pool bounds the number of tasks running at once across every Map call
// that shares it.
type Pool struct {
	size  int
	slots *semaphore.Weighted
	log   zerolog.Logger
}

type workerKey struct{}

// NewPool creates a pool of size workers. Zero or negative selects
// DefaultSize; other values are clamped to [MinSize, MaxSize].
func NewPool(size int, log zerolog.Logger) *Pool {
	switch {
	case size <= 0:
		size = DefaultSize
	case size < MinSize:
		size = MinSize
	case size > MaxSize:
		size = MaxSize
	}
	return &Pool{
		size:  size,
		slots: semaphore.NewWeighted(int64(size)),
		log:   log.With().Str("component", "work_pool").Logger(),
	}
}

// Size returns the worker count.
func (p *Pool) Size() int {
	return p.size
}

// inWorker reports whether ctx belongs to a task already holding a slot of p.
func (p *Pool) inWorker(ctx context.Context) bool {
	owner, _ := ctx.Value(workerKey{}).(*Pool)
	return owner == p
}

// Map runs fn on every item and returns the results in input order.
//
// Outside the pool, each item waits for a free slot. Inside a task of the
// same pool, items take a slot only when one is free and otherwise run
// inline on the calling worker, so nesting never exceeds Size and never
// waits on itself. Items still queued when ctx is done keep their zero
// result.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	nested := p.inWorker(ctx)
	taskCtx := context.WithValue(ctx, workerKey{}, p)

	var g errgroup.Group
	for i, item := range items {
		run := func() R { return fn(taskCtx, item) }

		if nested {
			if !p.slots.TryAcquire(1) {
				results[i] = safeRun(p.log, i, run)
				continue
			}
		} else if err := p.slots.Acquire(ctx, 1); err != nil {
			p.log.Debug().Err(err).Int("skipped", len(items)-i).Msg("Context done before tasks started")
			break
		}

		g.Go(func() error {
			defer p.slots.Release(1)
			results[i] = safeRun(p.log, i, run)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ForEach runs fn on every item and waits for all of them.
func ForEach[T any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T)) {
	Map(ctx, p, items, func(ctx context.Context, item T) struct{} {
		fn(ctx, item)
		return struct{}{}
	})
}

func safeRun[R any](log zerolog.Logger, index int, task func() R) (result R) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("panic", fmt.Sprint(r)).Int("task", index).Msg("Task panicked, result dropped")
			var zero R
			result = zero
		}
	}()
	return task()
}
