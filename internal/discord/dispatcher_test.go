package discord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tools.zach/dev/presencecord/internal/presence"
)

// ///////////////////////////////////////////////
// Test Helpers
// ///////////////////////////////////////////////

// fakeSender records sent titles. If gate is non-nil each Send waits on it.
type fakeSender struct {
	mu     sync.Mutex
	titles []string
	gate   chan struct{}
	fail   bool
}

func (f *fakeSender) Send(ctx context.Context, msg presence.Message) error {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles = append(f.titles, msg.Title)
	if f.fail {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeSender) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.titles...)
}

// ///////////////////////////////////////////////
// Dispatcher
// ///////////////////////////////////////////////

func TestDispatcher_PreservesOrder(t *testing.T) {
	s := &fakeSender{}
	d := NewDispatcher(s, 16, time.Second)

	want := []string{"a", "b", "c", "d"}
	for _, title := range want {
		d.Deliver(presence.Message{Title: title})
	}
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	got := s.sent()
	if len(got) != len(want) {
		t.Fatalf("sent %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sent[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	s := &fakeSender{gate: make(chan struct{})}
	d := NewDispatcher(s, 1, time.Second)

	// The worker picks up the first message and blocks on the gate; the
	// second fills the queue; the third is dropped.
	d.Deliver(presence.Message{Title: "first"})
	deadline := time.Now().Add(time.Second)
	for len(d.queue) != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.Deliver(presence.Message{Title: "second"})
	d.Deliver(presence.Message{Title: "third"})

	close(s.gate)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	got := s.sent()
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("sent %v, want [first second]", got)
	}
}

func TestDispatcher_ContinuesAfterFailure(t *testing.T) {
	s := &fakeSender{fail: true}
	d := NewDispatcher(s, 4, time.Second)

	d.Deliver(presence.Message{Title: "a"})
	d.Deliver(presence.Message{Title: "b"})
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if got := s.sent(); len(got) != 2 {
		t.Errorf("sent %v, want both attempts", got)
	}
}

func TestDispatcher_DeliverAfterClose(t *testing.T) {
	s := &fakeSender{}
	d := NewDispatcher(s, 4, time.Second)
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	d.Deliver(presence.Message{Title: "late"})
	if got := s.sent(); len(got) != 0 {
		t.Errorf("sent %v after close, want none", got)
	}
	// A second Close is a no-op.
	if err := d.Close(context.Background()); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}

func TestDispatcher_CloseHonorsContext(t *testing.T) {
	s := &fakeSender{gate: make(chan struct{})}
	d := NewDispatcher(s, 4, time.Minute)
	d.Deliver(presence.Message{Title: "stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Close() error = %v, want DeadlineExceeded", err)
	}
	close(s.gate)
}
