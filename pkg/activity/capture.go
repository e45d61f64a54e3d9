package activity

import (
	"context"
	"sync"
)

// CaptureHook accumulates every option lifecycle event it is notified with,
// so tests can assert on what a Set emitted. Events are stored normalized.
type CaptureHook struct {
	Events []Event
	// Err, when set, is returned from every Notify so tests can exercise
	// hook-failure paths.
	Err error
	mu  sync.Mutex
}

// Notify appends the normalized event and returns the configured error.
func (h *CaptureHook) Notify(_ context.Context, event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Events = append(h.Events, NormalizeEvent(event))
	return h.Err
}
