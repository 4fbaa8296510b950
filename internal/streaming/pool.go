// Package streaming resolves placeholder tiles into full meshes off the
// caller's goroutine.
package streaming

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/zmapmesh/internal/logger"
	"github.com/Faultbox/zmapmesh/internal/terrain"
)

// Job asks the pool to resolve one tile.
type Job struct {
	Name string // Used in logs only
	Tile *terrain.Tile
	// ResultChan receives the outcome. May be nil.
	ResultChan chan Result
}

// Result is the outcome of a Job.
type Result struct {
	Name    string
	Tile    *terrain.Tile
	Elapsed time.Duration
	Err     error
}

// Pool runs tile builds on a fixed set of worker goroutines. Each build is
// single-threaded, so no builder state is shared between workers.
type Pool struct {
	jobQueue chan Job
	workers  int
	opts     terrain.Options
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPool starts workers goroutines reading from a queue of queueSize jobs.
func NewPool(workers, queueSize int, opts terrain.Options) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobQueue: make(chan Job, queueSize),
		workers:  workers,
		opts:     opts,
		log:      logger.Named("streaming"),
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.log.Debug("pool started", zap.Int("workers", workers), zap.Int("queue", queueSize))
	return p
}

// Submit queues a job without blocking.
// Returns false if the queue is full or the pool is shut down.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// SubmitBlocking waits until the job is queued, ctx is done, or the pool
// shuts down. Returns false if the job was not queued.
func (p *Pool) SubmitBlocking(ctx context.Context, job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	case <-ctx.Done():
		return false
	case <-p.ctx.Done():
		return false
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			result := p.run(id, job)
			if job.ResultChan == nil {
				continue
			}
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) run(id int, job Job) Result {
	start := time.Now()
	err := job.Tile.Resolve(p.opts)
	elapsed := time.Since(start)

	if err != nil {
		p.log.Warn("tile build failed",
			zap.String("tile", job.Name),
			zap.Int("worker", id),
			zap.Error(err))
	} else {
		p.log.Debug("tile built",
			zap.String("tile", job.Name),
			zap.Int("worker", id),
			zap.Int("triangles", job.Tile.Mesh().TriangleCount()),
			zap.Duration("elapsed", elapsed))
	}

	return Result{Name: job.Name, Tile: job.Tile, Elapsed: elapsed, Err: err}
}

// Shutdown stops the workers and waits for them to exit. Jobs still queued
// are dropped and their tiles keep showing the placeholder.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.log.Debug("pool stopped", zap.Int("dropped", len(p.jobQueue)))
}

// QueueLength returns the number of jobs waiting for a worker.
func (p *Pool) QueueLength() int {
	return len(p.jobQueue)
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}
