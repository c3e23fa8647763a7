package discord

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tools.zach/dev/presencecord/internal/metrics"
	"tools.zach/dev/presencecord/internal/presence"
)

// ErrQueueFull is logged when a message is dropped because the queue is full.
var ErrQueueFull = errors.New("discord: delivery queue full")

// Sender delivers one message. [*Client] implements it.
type Sender interface {
	Send(ctx context.Context, msg presence.Message) error
}

// ///////////////////////////////////////////////
// Dispatcher
// ///////////////////////////////////////////////

// Dispatcher queues messages and sends them from a single worker goroutine,
// so delivery order matches Deliver order and a slow or failing transport
// never blocks the caller.
type Dispatcher struct {
	sender      Sender
	sendTimeout time.Duration

	// mu guards closed and the send side of queue.
	mu     sync.RWMutex
	closed bool
	queue  chan presence.Message

	// done is closed when the worker has drained the queue and exited.
	done chan struct{}
}

// NewDispatcher starts a Dispatcher with room for size pending messages.
// Each send is bounded by sendTimeout.
func NewDispatcher(sender Sender, size int, sendTimeout time.Duration) *Dispatcher {
	if size <= 0 {
		size = 64
	}
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	d := &Dispatcher{
		sender:      sender,
		sendTimeout: sendTimeout,
		queue:       make(chan presence.Message, size),
		done:        make(chan struct{}),
	}
	go d.run()
	return d
}

// Deliver enqueues msg without blocking. Messages are dropped with a warning
// when the queue is full or the dispatcher is closed.
func (d *Dispatcher) Deliver(msg presence.Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		slog.Warn("dropping notification after shutdown", "title", msg.Title)
		return
	}
	select {
	case d.queue <- msg:
	default:
		metrics.IncNotifyDropped()
		slog.Warn("dropping notification", "title", msg.Title, "error", ErrQueueFull)
	}
}

// Close stops accepting messages and waits for queued ones to be sent, or
// for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run drains the queue until it is closed.
func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := d.sender.Send(ctx, msg)
		cancel()
		if err != nil {
			metrics.IncNotifyFailure()
			slog.Warn("notification delivery failed", "title", msg.Title, "error", err)
			continue
		}
		metrics.IncNotifySent()
		slog.Debug("notification delivered", "title", msg.Title)
	}
}
