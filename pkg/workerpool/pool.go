// Package workerpool provides the fixed pool of execution units that run
// accepted connections to completion. Jobs are pushed onto a bounded queue;
// when the queue is full, Submit blocks the caller, so a saturated pool
// backpressures the acceptor instead of rejecting work. Each worker pops one
// job at a time and runs it end-to-end before taking the next, so no two
// connections interleave within one worker.
package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/eapache/queue"
	"go.uber.org/zap"
)

// ErrPoolClosed is returned by Submit after Shutdown has begun.
var ErrPoolClosed = errors.New("workerpool: pool is shut down")

// DefaultQueueSize bounds the pending-job queue when no size is configured.
const DefaultQueueSize = 128

// Job is a unit of work executed by one worker.
type Job func()

// Pool is a fixed set of workers pulling jobs off a bounded queue.
type Pool struct {
	size     int
	capacity int
	logger   *zap.Logger

	mu       sync.Mutex
	jobs     *queue.Queue
	notEmpty *sync.Cond
	notFull  *sync.Cond
	closed   bool

	wg sync.WaitGroup
}

// New creates a pool and starts its workers. A non-positive size defaults
// to four times the number of CPUs; a non-positive queueSize defaults to
// DefaultQueueSize.
func New(size, queueSize int, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = runtime.NumCPU() * 4
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		size:     size,
		capacity: queueSize,
		logger:   logger,
		jobs:     queue.New(),
	}
	p.notEmpty = sync.NewCond(&p.mu)
	p.notFull = sync.NewCond(&p.mu)

	p.wg.Add(size)
	for id := 0; id < size; id++ {
		go p.worker(id)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Submit enqueues a job. It blocks while the queue is full and returns
// ErrPoolClosed once Shutdown has begun.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.jobs.Length() >= p.capacity && !p.closed {
		p.notFull.Wait()
	}
	if p.closed {
		return ErrPoolClosed
	}

	p.jobs.Add(job)
	p.notEmpty.Signal()
	return nil
}

// Shutdown stops intake, lets queued and in-flight jobs finish, and joins
// all workers. It returns the context's error if the context is done before
// the workers drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.notEmpty.Broadcast()
	p.notFull.Broadcast()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// worker pops jobs until the pool is closed and the queue is drained.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.jobs.Length() == 0 && !p.closed {
			p.notEmpty.Wait()
		}
		if p.jobs.Length() == 0 && p.closed {
			p.mu.Unlock()
			return
		}
		job := p.jobs.Remove().(Job)
		p.notFull.Signal()
		p.mu.Unlock()

		p.run(id, job)
	}
}

// run executes one job, isolating a panic to that job so the worker keeps
// serving subsequent connections.
func (p *Pool) run(id int, job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("Worker recovered from panic",
				zap.Int("worker", id),
				zap.Any("panic", rec),
			)
		}
	}()

	job()
}
