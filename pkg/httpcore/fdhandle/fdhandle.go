// Package fdhandle owns a single OS file descriptor and guarantees it is
// closed exactly once, including when the close is requested from a
// different goroutine than the one using it.
package fdhandle

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Invalid is the sentinel value a closed Handle holds.
const Invalid = -1

// Handle wraps one integer file descriptor. At most one live owner exists
// at a time; a closed Handle is Invalid and Close on it is a no-op. Handles
// come from New: the zero value wraps descriptor 0. The descriptor number is stored atomically so that Fd() from the
// loop thread and Close() from a Kill-calling thread never race.
type Handle struct {
	fd     atomic.Int64
	closed atomic.Bool
	mu     sync.Mutex
}

// New wraps an already-open descriptor.
func New(fd int) *Handle {
	h := &Handle{}
	h.fd.Store(int64(fd))
	return h
}

// Fd returns the current descriptor number, or Invalid if the handle has
// been closed. Safe to call concurrently with Close.
func (h *Handle) Fd() int {
	if h.closed.Load() {
		return Invalid
	}
	return int(h.fd.Load())
}

// Valid reports whether the handle still owns an open descriptor.
func (h *Handle) Valid() bool {
	return !h.closed.Load()
}

// Close closes the descriptor exactly once across the handle's entire
// lifetime and transitions it to Invalid. Safe to call from any goroutine,
// including one other than the loop thread that otherwise owns the
// connection state this handle lives in.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	fd := int(h.fd.Swap(int64(Invalid)))
	if fd == Invalid {
		return nil
	}
	return unix.Close(fd)
}
