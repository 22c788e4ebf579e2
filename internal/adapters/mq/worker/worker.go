// Package worker defines the ingestion workers that drain the fact queue
// into the burn ledger.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/lineup/internal/adapters/mq/queue"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
)

// Fact is what workers read off the queue.
type Fact = model.MatchParticipation

// Recorder counts one participation fact. Implemented by burn.Ledger.
type Recorder interface {
	Record(ctx context.Context, fact model.MatchParticipation) bool
}

// Queue defines how workers receive facts.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Fact
}

// Worker drains facts from the queue into the recorder until stopped.
type Worker struct {
	queue    Queue
	recorder Recorder
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, recorder Recorder, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop until ctx is canceled, the worker is shut
// down, or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	facts := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case fact, ok := <-facts:
			if !ok {
				return
			}
			w.process(ctx, fact)
		}
	}
}

// Shutdown stops the worker and waits for it to finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process counts a single fact into the ledger.
func (w *Worker) process(ctx context.Context, fact Fact) {
	start := time.Now()
	counted := w.recorder.Record(ctx, fact)
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))

	if counted {
		metrics.RecordParticipationIngested()
		w.logger.Debug(ctx, "participation counted",
			logger.String("matchID", fact.MatchID),
			logger.String("playerID", fact.PlayerID),
			logger.Int("team", fact.TeamNumber),
			logger.String("phase", string(fact.Phase)),
		)
		return
	}
	// Duplicate match id: idempotent replay, not an error.
	metrics.RecordParticipationDuplicate()
	w.logger.Debug(ctx, "duplicate participation skipped",
		logger.String("matchID", fact.MatchID),
	)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers draining q into recorder.
func NewPool(workerCount int, q Queue, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(q, recorder, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits (bounded) for each to finish.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}
