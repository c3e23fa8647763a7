package tracker

import (
	"sync"

	"github.com/google/uuid"
	"tools.zach/dev/presencecord/internal/presence"
)

// Record is a change kept in [History].
type Record struct {
	ID string `json:"id"`
	presence.Change
}

// History keeps the most recent changes in a fixed-size ring.
type History struct {
	mu    sync.Mutex
	buf   []Record
	next  int
	count int
}

// NewHistory returns a History holding up to size records.
func NewHistory(size int) *History {
	if size <= 0 {
		size = 100
	}
	return &History{buf: make([]Record, size)}
}

// Add records c under a fresh ID and returns the record.
func (h *History) Add(c presence.Change) Record {
	r := Record{ID: uuid.NewString(), Change: c}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.next] = r
	h.next = (h.next + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
	return r
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (h *History) Recent(n int) []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 || n > h.count {
		n = h.count
	}
	out := make([]Record, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.next - i + len(h.buf)) % len(h.buf)
		out = append(out, h.buf[idx])
	}
	return out
}
