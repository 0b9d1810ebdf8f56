// Package batch runs many independent calculations on a fixed set of
// workers fed from a bounded queue.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/garage/pkg/logger"
	"github.com/okian/garage/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultMaxItems  = 500
	defaultQueueSize = 1024
)

// task runs one item. A non-nil err means the pool stopped before the item
// could run and the task must only record err.
type task func(err error)

// Pool owns the workers. It is started once and stopped once.
type Pool struct {
	name      string
	workers   int
	maxItems  int
	queueSize int
	logger    logger.Logger

	tasks   chan task
	stopped chan struct{}

	mu      sync.RWMutex
	started bool
	closed  bool

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewPool creates a pool with configuration options. Call Start before Map.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		name:      "batch",
		workers:   runtime.NumCPU(),
		maxItems:  defaultMaxItems,
		queueSize: defaultQueueSize,
		stopped:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}

	p.tasks = make(chan task, p.queueSize)
	metrics.UpdateBatchWorkers(p.workers)

	return p
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

// MaxItems returns the per-call item limit.
func (p *Pool) MaxItems() int { return p.maxItems }

// Len returns the number of queued, not yet running tasks.
func (p *Pool) Len() int { return len(p.tasks) }

// Start launches the workers. They run until Shutdown is called or ctx is
// cancelled; after cancellation queued tasks are dropped with ErrStopped.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.mu.Lock()
		p.started = true
		p.mu.Unlock()

		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.work(ctx)
		}

		go func() {
			select {
			case <-ctx.Done():
				p.stop()
			case <-p.stopped:
			}
		}()

		p.logger.Info(ctx, "batch pool started", logger.Int("workers", p.workers), logger.Int("max_items", p.maxItems))
	})
}

func (p *Pool) work(ctx context.Context) {
	defer p.wg.Done()
	for t := range p.tasks {
		if ctx.Err() != nil {
			t(ErrStopped)
			continue
		}
		metrics.AddBatchInFlight(1)
		t(nil)
		metrics.AddBatchInFlight(-1)
	}
}

// stop refuses new tasks and lets workers drain the queue.
func (p *Pool) stop() {
	p.stopOnce.Do(func() {
		close(p.stopped)
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.tasks)
	})
}

// Shutdown stops accepting work, finishes queued tasks and waits for the
// workers to exit or ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.stop()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info(ctx, "batch pool stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "batch pool shutdown timed out", logger.Int("queued", p.Len()))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (p *Pool) submit(ctx context.Context, t task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started || p.closed {
		return ErrStopped
	}

	select {
	case p.tasks <- t:
		return nil
	case <-p.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Map applies fn to every item on the pool's workers and returns the results
// in input order. It fails with ErrBatchTooLarge when items exceeds the
// pool's limit, and otherwise with the error of the lowest-indexed failing
// item. A panic in fn is reported as ErrTaskPanicked for that item.
func Map[In, Out any](ctx context.Context, p *Pool, items []In, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	if len(items) > p.maxItems {
		metrics.RecordBatchJob("rejected")
		return nil, fmt.Errorf("%w: %d items, limit is %d", ErrBatchTooLarge, len(items), p.maxItems)
	}

	results := make([]Out, len(items))
	if len(items) == 0 {
		return results, nil
	}

	start := time.Now()
	errs := make([]error, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		t := func(stopErr error) {
			defer wg.Done()
			if stopErr != nil {
				errs[i] = stopErr
				return
			}
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
				}
			}()
			results[i], errs[i] = fn(ctx, item)
		}

		if err := p.submit(ctx, t); err != nil {
			wg.Done()
			for j := i; j < len(items); j++ {
				errs[j] = err
			}
			break
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			metrics.RecordBatchJob("error")
			metrics.RecordErrorByComponent("batch", "item_failed")
			p.logger.Warn(ctx, "batch failed",
				logger.Int("items", len(items)),
				logger.Int("index", i),
				logger.Error(err),
			)
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	metrics.RecordBatchItems(len(items))
	metrics.RecordBatchJob("ok")
	p.logger.Debug(ctx, "batch done",
		logger.Int("items", len(items)),
		logger.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
	)
	return results, nil
}
