package pool

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/indigo-web/sparrow/internal/pool"

// ErrClosed is returned by Submit after the pool was closed.
var ErrClosed = errors.New("pool is closed")

// Task is a unit of work. Every submitted task is run exactly once by exactly one worker.
type Task func()

// Stats is a snapshot of the pool counters.
type Stats struct {
	Submitted uint64
	Completed uint64
	Panicked  uint64
}

type Option func(*Pool)

// WithLogger sets the logger recovered panics are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// WithMeter sets the meter the counters are published through. Defaults to the meter of
// the global otel.MeterProvider, which is no-op unless the host installs one.
func WithMeter(meter metric.Meter) Option {
	return func(p *Pool) {
		p.meter = meter
	}
}

// Pool is a fixed set of workers consuming tasks from a single shared unbounded queue.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  queue[Task]
	closed bool
	wg     sync.WaitGroup

	logger *slog.Logger
	meter  metric.Meter
	stats  struct {
		submitted, completed, panicked atomic.Uint64
	}
	counters struct {
		submitted, completed, panicked metric.Int64Counter
	}
}

// New starts n workers. A non-positive n is treated as 1.
func New(n int, opts ...Option) *Pool {
	if n <= 0 {
		n = 1
	}

	p := &Pool{
		queue:  newQueue[Task](n),
		logger: slog.Default(),
		meter:  otel.Meter(meterName),
	}
	p.cond = sync.NewCond(&p.mu)

	for _, opt := range opts {
		opt(p)
	}

	p.counters.submitted = p.counter("pool.tasks.submitted", "The number of tasks accepted by the pool")
	p.counters.completed = p.counter("pool.tasks.completed", "The number of tasks run to completion")
	p.counters.panicked = p.counter("pool.tasks.panicked", "The number of tasks interrupted by a panic")

	p.wg.Add(n)
	for id := range n {
		go p.worker(id)
	}

	return p
}

func (p *Pool) counter(name, description string) metric.Int64Counter {
	counter, err := p.meter.Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit("{task}"))
	if err != nil {
		p.logger.Warn("cannot create counter", slog.String("name", name), slog.Any("err", err))
		return noop.Int64Counter{}
	}

	return counter
}

// Submit enqueues the task. It never blocks on busy workers.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}

	p.queue.Push(task)
	p.mu.Unlock()
	p.cond.Signal()

	p.stats.submitted.Add(1)
	p.counters.submitted.Add(context.Background(), 1)

	return nil
}

// Close stops accepting new tasks. Already queued tasks are still run, after which the
// workers exit. Calling Close more than once is a no-op.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
}

// Wait blocks until every worker has exited. Returns immediately only if Close was called
// and the queue is drained.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stats returns the current counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.stats.submitted.Load(),
		Completed: p.stats.completed.Load(),
		Panicked:  p.stats.panicked.Load(),
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		task, ok := p.next()
		if !ok {
			return
		}

		p.run(id, task)
	}
}

// next blocks until a task is available. Returns false if the pool is closed and drained.
func (p *Pool) next() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.queue.Empty() && !p.closed {
		p.cond.Wait()
	}

	if p.queue.Empty() {
		return nil, false
	}

	return p.queue.Pop(), true
}

func (p *Pool) run(id int, task Task) {
	defer func() {
		if recovered := recover(); recovered != nil {
			p.stats.panicked.Add(1)
			p.counters.panicked.Add(context.Background(), 1)
			p.logger.Error(
				"recovered from panic in task",
				slog.Int("worker", id),
				slog.Any("panic", recovered),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	task()
	p.stats.completed.Add(1)
	p.counters.completed.Add(context.Background(), 1)
}
