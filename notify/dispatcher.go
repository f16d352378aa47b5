// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrDeliveryFailed wraps the final transport error after retries are
// exhausted. It is logged, never returned to the operation that
// triggered the notification.
var ErrDeliveryFailed = errors.New("delivery failed")

const (
	queueSize  = 256
	ledgerSize = 512
)

// Dispatcher turns events into at most one outbound email each.
//
// Dispatch is fire-and-forget: callers enqueue and move on, a single
// worker goroutine does the sending. No caller lock ever spans a
// transport call. Events with an empty Recipient are fanned out to
// subscribers instead of being mailed.
type Dispatcher struct {
	transport Transport
	from      string

	queue   chan Event
	stop    chan struct{}
	stopped chan struct{}

	// dedup ledger: correlation tuples that already produced an
	// accepted send. Bounded; old entries age out by LRU.
	seen *lru.Cache[string, struct{}]

	mu   sync.Mutex
	subs []chan Event

	// Retry policy for transient transport failures
	MaxAttempts int
	RetryBase   time.Duration
	RetryBudget time.Duration
}

func NewDispatcher(transport Transport, from string) *Dispatcher {
	seen, err := lru.New[string, struct{}](ledgerSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}

	return &Dispatcher{
		transport: transport,
		from:      from,
		queue:     make(chan Event, queueSize),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
		seen:      seen,

		MaxAttempts: 3,
		RetryBase:   500 * time.Millisecond,
		RetryBudget: 30 * time.Second,
	}
}

// Start launches the delivery worker
func (d *Dispatcher) Start() {
	go d.run()
}

// Stop shuts the worker down and waits for it to exit. Queued events
// are not flushed.
func (d *Dispatcher) Stop() {
	close(d.stop)
	<-d.stopped
}

// Dispatch enqueues an event for delivery. Never blocks: if the queue is
// full the event is dropped and logged, because a slow mail transport
// must not stall the mutation that emitted the event.
func (d *Dispatcher) Dispatch(evt Event) {
	select {
	case d.queue <- evt:
	default:
		slog.Error("notification queue full, dropping event",
			"event_id", evt.ID,
			"kind", evt.Kind,
			"recipient", evt.Recipient,
		)
	}
}

// Subscribe returns a channel receiving fan-out events (phase changes).
// Slow subscribers miss events rather than blocking the worker.
func (d *Dispatcher) Subscribe() <-chan Event {
	ch := make(chan Event, 8)
	d.mu.Lock()
	d.subs = append(d.subs, ch)
	d.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel returned by Subscribe
func (d *Dispatcher) Unsubscribe(ch <-chan Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, sub := range d.subs {
		if sub == ch {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Discard drops all queued events and clears the dedup ledger. Called
// when an election is forced to END: notifications for abandoned phases
// must not go out afterwards.
func (d *Dispatcher) Discard() {
	for {
		select {
		case evt := <-d.queue:
			slog.Info("discarding queued notification", "event_id", evt.ID, "kind", evt.Kind)
		default:
			d.seen.Purge()
			return
		}
	}
}

func (d *Dispatcher) run() {
	defer close(d.stopped)

	for {
		select {
		case <-d.stop:
			return
		case evt := <-d.queue:
			if evt.Recipient == "" {
				d.broadcast(evt)
				continue
			}
			if err := d.deliver(context.Background(), evt); err != nil {
				slog.Error("notification delivery failed",
					"event_id", evt.ID,
					"kind", evt.Kind,
					"recipient", evt.Recipient,
					"error", err,
				)
			}
		}
	}
}

func (d *Dispatcher) broadcast(evt Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// deliver sends one event: dedup check, compose, then the transport call
// with bounded retries. The ledger records the tuple only after the
// transport accepts the send, so a failed attempt stays retriable on
// redelivery.
func (d *Dispatcher) deliver(ctx context.Context, evt Event) error {
	if evt.CorrelationID != "" {
		if _, dup := d.seen.Get(evt.dedupKey()); dup {
			slog.Info("duplicate notification suppressed",
				"kind", evt.Kind,
				"recipient", evt.Recipient,
				"correlation_id", evt.CorrelationID,
			)
			return nil
		}
	}

	msg, err := compose(evt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, d.RetryBudget)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= d.MaxAttempts; attempt++ {
		lastErr = d.transport.Send(ctx, d.from, evt.Recipient, msg)
		if lastErr == nil {
			if evt.CorrelationID != "" {
				d.seen.Add(evt.dedupKey(), struct{}{})
			}
			return nil
		}

		if IsPermanent(lastErr) {
			break
		}
		if attempt == d.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: retry budget exhausted: %v", ErrDeliveryFailed, lastErr)
		case <-time.After(d.RetryBase << (attempt - 1)):
		}
	}

	return fmt.Errorf("%w: %v", ErrDeliveryFailed, lastErr)
}
