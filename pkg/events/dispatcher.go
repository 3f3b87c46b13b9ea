package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is a domain event handed to the notification collaborator.
type Event struct {
	ID         string
	Name       string
	Payload    json.RawMessage
	OccurredAt time.Time
	Attempt    int
}

// Publisher delivers events to an external subscriber (notification service,
// message broker, audit sink). Delivery failures are retried by the dispatcher.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, event Event) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Config sizes the dispatch worker pool.
type Config struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Dispatcher fans domain events out to a Publisher using a bounded
// in-memory queue. Publication is best-effort: command handlers never
// block on delivery beyond enqueueing.
type Dispatcher struct {
	publisher Publisher

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	queue   chan Event
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewDispatcher builds a dispatcher around the given publisher.
func NewDispatcher(publisher Publisher, cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Dispatcher{
		publisher:  publisher,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		queue:      make(chan Event, cfg.BufferSize),
	}
}

// Start launches the worker pool. Safe to call once.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.started = true
	d.logger.Sugar().Infow("event dispatcher started", "workers", d.workers)
}

// Stop cancels workers and waits for them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.cancel()
	d.mu.Unlock()
	d.wg.Wait()
	d.logger.Sugar().Infow("event dispatcher stopped")
}

// Emit enqueues an event for asynchronous publication.
func (d *Dispatcher) Emit(event Event) error {
	d.mu.Lock()
	ctx := d.ctx
	started := d.started
	d.mu.Unlock()

	if !started {
		return fmt.Errorf("event dispatcher not started")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("event dispatcher stopped: %w", ctx.Err())
	case d.queue <- event:
		return nil
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case event := <-d.queue:
			if err := d.publisher.Publish(d.ctx, event); err != nil {
				d.retry(event, err)
			}
		}
	}
}

func (d *Dispatcher) retry(event Event, err error) {
	event.Attempt++
	if event.Attempt > d.maxRetries {
		d.logger.Sugar().Errorw("event publication exceeded retries", "event", event.Name, "event_id", event.ID, "error", err)
		return
	}
	d.logger.Sugar().Warnw("event publication failed, retrying", "event", event.Name, "event_id", event.ID, "attempt", event.Attempt, "error", err)

	// Tracked by the WaitGroup so Stop() waits out pending retries.
	d.wg.Add(1)
	go func(e Event) {
		defer d.wg.Done()
		timer := time.NewTimer(d.retryDelay)
		defer timer.Stop()
		select {
		case <-d.ctx.Done():
			return
		case <-timer.C:
			if err := d.Emit(e); err != nil {
				d.logger.Sugar().Errorw("failed to requeue event", "event", e.Name, "event_id", e.ID, "error", err)
			}
		}
	}(event)
}
