package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"simplefit/internal/async"
	"simplefit/internal/config"
)

// ErrQueueClosed resolves follow-ups enqueued after Stop.
var ErrQueueClosed = errors.New("follow-up queue is closed")

// FollowUpFailure records a secondary write that exhausted its retries.
type FollowUpFailure struct {
	Name     string
	Err      error
	Attempts int
	At       time.Time
}

// FollowUpStatus is where one recently queued write stands.
type FollowUpStatus struct {
	Name       string
	State      async.State
	Err        error
	EnqueuedAt time.Time
}

// FollowUpSnapshot is a point-in-time view of the queue.
type FollowUpSnapshot struct {
	Queued   int              // waiting in the buffer, not yet picked up
	Recent   []FollowUpStatus // newest first
	Failures []FollowUpFailure
}

// recentFollowUps bounds how many writes Snapshot reports.
const recentFollowUps = 32

type followUp struct {
	name       string
	fn         func(context.Context) error
	future     *async.Future[struct{}]
	enqueuedAt time.Time
}

// FollowUpQueue runs secondary writes (history lists, statistics, counters) on
// a single worker after the primary write has returned. Each write is retried
// with linear backoff; its outcome is observable through the returned Future
// and, on final failure, through Failures.
type FollowUpQueue struct {
	tasks       chan followUp
	maxAttempts int
	backoff     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.RWMutex // guards closed and started; held for reading while sending
	closed  bool
	started bool

	failMu   sync.Mutex
	failures []FollowUpFailure

	recentMu sync.Mutex
	recent   []followUp
}

func NewFollowUpQueue(cfg config.FollowUpConfig) *FollowUpQueue {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &FollowUpQueue{
		tasks:       make(chan followUp, cfg.Buffer),
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Start launches the worker. Calling it more than once has no effect.
func (q *FollowUpQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	go q.run()
}

// Enqueue schedules fn. It blocks only while the buffer is full.
func (q *FollowUpQueue) Enqueue(name string, fn func(context.Context) error) *async.Future[struct{}] {
	fut := async.NewFuture[struct{}]()

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		fut.Resolve(struct{}{}, ErrQueueClosed)
		return fut
	}
	t := followUp{name: name, fn: fn, future: fut, enqueuedAt: time.Now().UTC()}
	q.remember(t)
	q.tasks <- t
	return fut
}

func (q *FollowUpQueue) remember(t followUp) {
	q.recentMu.Lock()
	defer q.recentMu.Unlock()
	q.recent = append(q.recent, t)
	if n := len(q.recent); n > recentFollowUps {
		q.recent = append(q.recent[:0:0], q.recent[n-recentFollowUps:]...)
	}
}

// Stop refuses new work and waits for the queued writes to drain. When ctx
// ends first, in-flight retries are abandoned.
func (q *FollowUpQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	started := q.started
	q.mu.Unlock()

	if !started {
		q.cancel()
		for t := range q.tasks {
			t.future.Resolve(struct{}{}, ErrQueueClosed)
		}
		return nil
	}

	select {
	case <-q.done:
		q.cancel()
		return nil
	case <-ctx.Done():
		q.cancel()
		<-q.done
		return ctx.Err()
	}
}

// Failures returns the writes that failed permanently, oldest first.
func (q *FollowUpQueue) Failures() []FollowUpFailure {
	q.failMu.Lock()
	defer q.failMu.Unlock()
	return append([]FollowUpFailure(nil), q.failures...)
}

// Snapshot reports the recent writes with their current state and the
// permanent failures.
func (q *FollowUpQueue) Snapshot() FollowUpSnapshot {
	q.recentMu.Lock()
	recent := make([]FollowUpStatus, 0, len(q.recent))
	for i := len(q.recent) - 1; i >= 0; i-- {
		t := q.recent[i]
		r := t.future.Poll()
		recent = append(recent, FollowUpStatus{Name: t.name, State: r.State, Err: r.Err, EnqueuedAt: t.enqueuedAt})
	}
	q.recentMu.Unlock()

	return FollowUpSnapshot{
		Queued:   len(q.tasks),
		Recent:   recent,
		Failures: q.Failures(),
	}
}

func (q *FollowUpQueue) run() {
	defer close(q.done)
	for t := range q.tasks {
		err := q.attempt(t)
		t.future.Resolve(struct{}{}, err)
	}
}

func (q *FollowUpQueue) attempt(t followUp) error {
	var err error
	attempts := 0
	for n := 1; n <= q.maxAttempts; n++ {
		attempts = n
		if err = t.fn(q.ctx); err == nil {
			return nil
		}
		if q.ctx.Err() != nil {
			break
		}
		if n < q.maxAttempts {
			log.Printf("WARN: [FollowUp] %s failed (attempt %d/%d): %v", t.name, n, q.maxAttempts, err)
			select {
			case <-time.After(q.backoff * time.Duration(n)):
			case <-q.ctx.Done():
			}
		}
	}

	log.Printf("ERROR: [FollowUp] %s gave up: %v", t.name, err)
	q.failMu.Lock()
	q.failures = append(q.failures, FollowUpFailure{Name: t.name, Err: err, Attempts: attempts, At: time.Now()})
	q.failMu.Unlock()
	return err
}
