package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturePublisher struct {
	mu       sync.Mutex
	events   []Event
	failures int
}

func (p *capturePublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("publish failed")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func TestDispatcherDeliversEvents(t *testing.T) {
	pub := &capturePublisher{}
	d := NewDispatcher(pub, Config{Workers: 2, Logger: zap.NewNop()})
	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Emit(Event{ID: "evt-1", Name: "allocation.created"}))
	require.NoError(t, d.Emit(Event{ID: "evt-2", Name: "allocation.ended"}))

	require.Eventually(t, func() bool {
		return len(pub.published()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDispatcherRetriesFailedPublication(t *testing.T) {
	pub := &capturePublisher{failures: 1}
	d := NewDispatcher(pub, Config{Workers: 1, MaxRetries: 2, RetryDelay: 5 * time.Millisecond, Logger: zap.NewNop()})
	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Emit(Event{ID: "evt-1", Name: "leave.decided"}))

	require.Eventually(t, func() bool {
		events := pub.published()
		return len(events) == 1 && events[0].Attempt == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDispatcherStopWaitsForPendingRetry(t *testing.T) {
	pub := &capturePublisher{failures: 1}
	d := NewDispatcher(pub, Config{Workers: 1, MaxRetries: 2, RetryDelay: 50 * time.Millisecond, Logger: zap.NewNop()})
	d.Start(context.Background())

	require.NoError(t, d.Emit(Event{ID: "evt-1", Name: "allocation.transferred"}))

	// Let the first attempt fail and schedule its retry, then stop. Stop
	// must not return while the retry goroutine is still live.
	time.Sleep(10 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}

	// The pending retry was cancelled, not delivered after shutdown.
	require.Empty(t, pub.published())
}

func TestDispatcherEmitBeforeStart(t *testing.T) {
	d := NewDispatcher(&capturePublisher{}, Config{})
	require.Error(t, d.Emit(Event{Name: "complaint.resolved"}))
}
