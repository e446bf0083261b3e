package directory

import (
	"context"
	"sync"
	"time"

	"github.com/grainmesh/dirhandoff/cmn/nlog"
)

// op is a single named async action the executor drives to completion (or
// gives up on, per retry policy).
type op struct {
	name   string
	action func(context.Context) error
}

// opQueue is the FIFO of pending operations plus its single-consumer,
// bounded-retry executor (spec §4.7). A boolean busy flag - rather than
// the "queue contained <=1 prior item" heuristic the pseudocode uses to
// approximate "is a consumer already running" without an explicit flag -
// guards the single-consumer invariant; see DESIGN.md.
type opQueue struct {
	mu           sync.Mutex
	items        []op
	running      bool
	dequeueCount int

	cfg     Config
	metrics *Metrics
}

func newOpQueue(cfg Config, metrics *Metrics) *opQueue {
	return &opQueue{cfg: cfg, metrics: metrics}
}

// enqueue appends op and starts the executor if it isn't already running.
func (q *opQueue) enqueue(name string, action func(context.Context) error) {
	q.mu.Lock()
	q.items = append(q.items, op{name: name, action: action})
	n := len(q.items)
	start := !q.running
	if start {
		q.running = true
	}
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.queueDepth.Set(float64(n))
	}
	if start {
		go q.run()
	}
}

// run is ExecutePendingOperations: drains items FIFO, at most one active
// at a time, retrying a failing head up to cfg.MaxDequeue total attempts
// with cfg.RetryDelay between them before dropping it.
func (q *opQueue) run() {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		cur := q.items[0]
		q.mu.Unlock()

		q.dequeueCount++
		err := cur.action(context.Background())

		if err == nil {
			q.dequeueCount = 0
			q.dequeueHead()
			if q.metrics != nil {
				q.metrics.opsOK.Inc()
			}
			continue
		}

		if q.dequeueCount < q.cfg.MaxDequeue {
			nlog.Warningf("op %s failed (attempt %d/%d), will be retried: %v",
				cur.name, q.dequeueCount, q.cfg.MaxDequeue, err)
			if q.metrics != nil {
				q.metrics.opsRetried.Inc()
			}
			time.Sleep(q.cfg.RetryDelay)
			continue
		}

		nlog.Warningf("op %s failed (attempt %d/%d), will NOT be retried: %v",
			cur.name, q.dequeueCount, q.cfg.MaxDequeue, err)
		if q.metrics != nil {
			q.metrics.opsDropped.Inc()
		}
		q.dequeueCount = 0
		q.dequeueHead()
	}
}

func (q *opQueue) dequeueHead() {
	q.mu.Lock()
	if len(q.items) > 0 {
		q.items = q.items[1:]
	}
	n := len(q.items)
	q.mu.Unlock()
	if q.metrics != nil {
		q.metrics.queueDepth.Set(float64(n))
	}
}

// Len reports the current queue depth; for tests and observability.
func (q *opQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
