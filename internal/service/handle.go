package service

import (
	"context"
	"sync"

	"github.com/DcZipPL/GodotManager/internal/acquire"
)

const (
	eventBuffer = 16
	// stageReserve keeps room for the message changes of one request
	// (waiting, downloading, verifying, extracting, terminal) so they are
	// never dropped. Progress updates are dropped once only the reserve
	// is left.
	stageReserve = 5
)

// Handle tracks an acquisition started with Start.
type Handle struct {
	ID string

	events chan Status
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	result acquire.Result
	err    error
}

// Start runs req on a new goroutine. Reading Events is optional: progress
// updates are dropped rather than blocking the acquisition, stage and
// message changes are always delivered, and the channel is closed after the terminal
// status.
func (m *Manager) Start(ctx context.Context, req acquire.Request) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		ID:     req.ID,
		events: make(chan Status, eventBuffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()
		defer close(h.done)
		defer close(h.events)

		var last Status
		result, err := m.Acquire(ctx, req, func(st Status) {
			changed := st.Stage != last.Stage || st.Message != last.Message
			last = st
			if !changed && len(h.events) >= eventBuffer-stageReserve {
				return
			}
			select {
			case h.events <- st:
			default:
				m.logger.Warn("status dropped", "request", req.ID, "stage", string(st.Stage))
			}
		})

		h.mu.Lock()
		h.result, h.err = result, err
		h.mu.Unlock()
	}()

	return h
}

// Events streams status changes. The channel is closed once the request
// has finished.
func (h *Handle) Events() <-chan Status {
	return h.events
}

// Wait blocks until the request finishes and returns its outcome.
func (h *Handle) Wait() (acquire.Result, error) {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.err
}

// Done is closed when the request has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Cancel aborts the request. The outcome becomes a cancellation unless the
// request already finished.
func (h *Handle) Cancel() {
	h.cancel()
}
