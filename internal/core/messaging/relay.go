// Package messaging relays messages from a host process to a UI surface.
//
// A Relay is store-and-forward: Send queues the message and tries to hand it
// to the attached Sink a bounded number of times with a fixed delay between
// attempts. Messages that cannot be delivered stay queued until the next
// Flush or Attach. Delivery order is queue order.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/promptshelf/internal/core/logging"
)

// ErrNoSink is returned when a message is queued but no sink is attached.
var ErrNoSink = errors.New("no sink attached")

// Sink receives relayed messages.
type Sink interface {
	Deliver(ctx context.Context, msg Message) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, msg Message) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, msg Message) error { return f(ctx, msg) }

// RelayOptions tunes delivery.
type RelayOptions struct {
	// Attempts per message per flush. Values below 1 mean 1.
	Attempts int
	// Delay between attempts.
	Delay time.Duration
	// MaxPending bounds the queue; the oldest message is dropped when full.
	// Zero means unbounded.
	MaxPending int
}

// Relay queues messages and delivers them to a Sink.
type Relay struct {
	opts RelayOptions
	log  zerolog.Logger

	// flushMu serializes delivery so queue order is kept.
	flushMu sync.Mutex

	mu      sync.Mutex
	sink    Sink
	pending []Message
	dropped int
}

// NewRelay creates a relay without a sink.
func NewRelay(opts RelayOptions, log zerolog.Logger) *Relay {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	return &Relay{opts: opts, log: log}
}

// Attach sets the sink and flushes anything queued.
func (r *Relay) Attach(ctx context.Context, sink Sink) error {
	r.mu.Lock()
	r.sink = sink
	r.mu.Unlock()
	return r.Flush(ctx)
}

// Detach removes the sink. Later messages queue until a sink is attached.
func (r *Relay) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = nil
}

// Send queues msg and flushes the queue. A nil error means every queued
// message, including msg, was delivered.
func (r *Relay) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.opts.MaxPending > 0 && len(r.pending) >= r.opts.MaxPending {
		old := r.pending[0]
		r.pending = r.pending[1:]
		r.dropped++
		r.log.Warn().Str("id", old.ID).Str("dropped_topic", old.Topic).Msg("relay queue full, dropping oldest message")
	}
	r.pending = append(r.pending, msg)
	r.mu.Unlock()

	return r.Flush(ctx)
}

// Flush delivers queued messages in order and stops at the first message
// that fails every attempt.
func (r *Relay) Flush(ctx context.Context) error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	for {
		r.mu.Lock()
		sink := r.sink
		if len(r.pending) == 0 {
			r.mu.Unlock()
			return nil
		}
		msg := r.pending[0]
		r.mu.Unlock()

		if sink == nil {
			return ErrNoSink
		}

		if err := r.deliver(ctx, sink, msg); err != nil {
			return err
		}

		r.mu.Lock()
		if len(r.pending) > 0 && r.pending[0].ID == msg.ID {
			r.pending = r.pending[1:]
		}
		r.mu.Unlock()
	}
}

func (r *Relay) deliver(ctx context.Context, sink Sink, msg Message) error {
	ctx = logging.WithTopic(ctx, msg.Topic)

	var err error
	for attempt := 1; attempt <= r.opts.Attempts; attempt++ {
		if err = sink.Deliver(ctx, msg); err == nil {
			r.log.Debug().Ctx(ctx).Str("id", msg.ID).Int("attempt", attempt).Msg("message delivered")
			return nil
		}

		r.log.Debug().Ctx(ctx).Err(err).Str("id", msg.ID).Int("attempt", attempt).Msg("delivery failed")
		if attempt == r.opts.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.opts.Delay):
		}
	}

	r.log.Warn().Ctx(ctx).Err(err).Str("id", msg.ID).Msg("message left pending after retries")
	return fmt.Errorf("deliver %s after %d attempts: %w", msg.ID, r.opts.Attempts, err)
}

// Pending returns the number of queued messages.
func (r *Relay) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Dropped returns how many messages were discarded because the queue was full.
func (r *Relay) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
