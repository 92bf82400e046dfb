package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/linesource"
	"github.com/dgallion1/docstruct/internal/metrics"
	"github.com/dgallion1/docstruct/internal/structure"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("pipeline stopped")

// Orchestrator runs structure builds on a pool of workers.
type Orchestrator struct {
	jobs       *JobStore
	queue      chan *Job
	dispatcher structure.Dispatcher
	stats      *BuildStats
	metrics    *metrics.Metrics
	out        Output
	names      *outputNames
	log        *slog.Logger
	cfg        config.Config

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	pending sync.WaitGroup

	mu       sync.Mutex
	stopped  bool
	stopOnce sync.Once
}

// NewOrchestrator creates the pipeline. m may be nil.
func NewOrchestrator(cfg config.Config, d structure.Dispatcher, out Output, m *metrics.Metrics, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:       NewJobStore(cfg.JobTTL),
		queue:      make(chan *Job, cfg.MaxQueueSize),
		dispatcher: d,
		stats:      NewBuildStats(cfg.StatsWindow),
		metrics:    m,
		out:        out,
		names:      newOutputNames(),
		log:        log,
		cfg:        cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	decode := linesource.Options{Validate: o.cfg.ValidateSchema, MaxBytes: o.cfg.MaxInputBytes}
	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.dispatcher, decode, o.jobs, o.stats, o.metrics, o.out, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.observeQueue()
					w.Process(workerCtx, job)
					o.pending.Done()
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Drain waits until every submitted job has finished or ctx is done.
func (o *Orchestrator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts down the workers. Jobs still queued are marked failed.
// Calling Stop more than once is a no-op.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.mu.Lock()
		o.stopped = true
		if o.cancel != nil {
			o.cancel()
		}
		close(o.queue)
		o.mu.Unlock()

		o.wg.Wait()
		for job := range o.queue {
			job.AddError("pipeline stopped")
			job.SetStatus(StatusFailed, "queued")
			o.pending.Done()
		}
	})
}

// Submit queues a new job for processing. Output paths are reserved in
// submission order, so clashing input names resolve the same way every run.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.AddError("pipeline stopped")
		job.SetStatus(StatusFailed, "queued")
		return ErrStopped
	}

	o.jobs.Put(job)
	if o.out.Dir != "" {
		job.setTarget(o.names.reserve(o.out.Path(job.Filename)))
	}
	o.pending.Add(1)
	select {
	case o.queue <- job:
		o.observeQueue()
		return nil
	default:
		o.pending.Done()
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Jobs returns every known job in submission order.
func (o *Orchestrator) Jobs() []*Job {
	return o.jobs.List()
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the rolling build statistics.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

func (o *Orchestrator) observeQueue() {
	if o.metrics != nil {
		o.metrics.SetQueueDepth(len(o.queue))
	}
}
