// Package body implements the cooperative body reader handed to handlers.
// Because Go has no first-class coroutines, the handler that uses this
// reader runs on its own goroutine (see pkg/httpcore/conn), and Read's
// suspension is expressed as a blocking receive on a single-slot channel
// the event loop signals.
package body

import (
	"errors"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/sys/unix"

	"github.com/yourusername/httpcore/pkg/httpcore/fdhandle"
)

// recvPool reuses the scratch buffers Read's non-blocking recv fills, the
// same way pkg/httpcore/conn reuses its own for the REQ-stage recv loop.
var recvPool bytebufferpool.Pool

// ErrConnectionClosed is returned when the peer hangs up before delivering
// the full declared body.
var ErrConnectionClosed = errors.New("body: connection closed before body fully read")

// Reader streams a request body off its connection's descriptor,
// suspending the calling goroutine rather than the event loop when the
// kernel has no more bytes ready.
type Reader struct {
	handle    *fdhandle.Handle
	bufSize   int
	remaining int64
	cache     []byte
	ready     chan struct{}
}

// New constructs a Reader over handle, using bufSize as the per-recv cap
// and contentLength (from the request's Content-Length) as the total body
// size still to be delivered.
func New(handle *fdhandle.Handle, bufSize int, contentLength int64) *Reader {
	return &Reader{
		handle:    handle,
		bufSize:   bufSize,
		remaining: contentLength,
		ready:     make(chan struct{}, 1),
	}
}

// Notify wakes a Reader parked waiting for readable readiness. Called by
// the event loop, never by the handler goroutine itself. Non-blocking: a
// pending notification that the reader hasn't consumed yet is not
// duplicated.
func (r *Reader) Notify() {
	select {
	case r.ready <- struct{}{}:
	default:
	}
}

// Remaining reports the number of body bytes not yet delivered to the
// handler.
func (r *Reader) Remaining() int64 {
	return r.remaining
}

// Read returns up to n bytes of body, clamped to the remaining declared
// body size. It blocks the calling goroutine — not the event loop — when
// the kernel currently has nothing to offer, resuming once the loop calls
// Notify for this connection's next readable readiness.
func (r *Reader) Read(n int) ([]byte, error) {
	if int64(n) > r.remaining {
		n = int(r.remaining)
	}
	if r.remaining == 0 || n == 0 {
		return nil, nil
	}

	for {
		if len(r.cache) >= n {
			out := r.cache[:n:n]
			r.cache = r.cache[n:]
			r.remaining -= int64(n)
			return out, nil
		}

		fd := r.handle.Fd()
		if fd == fdhandle.Invalid {
			return nil, ErrConnectionClosed
		}

		scratch := recvPool.Get()
		if cap(scratch.B) < r.bufSize {
			scratch.B = make([]byte, r.bufSize)
		}
		chunk := scratch.B[:r.bufSize]
		nr, err := unix.Read(fd, chunk)
		switch {
		case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
			recvPool.Put(scratch)
			<-r.ready
			continue
		case err != nil:
			recvPool.Put(scratch)
			return nil, err
		case nr == 0:
			recvPool.Put(scratch)
			return nil, ErrConnectionClosed
		}
		r.cache = append(r.cache, chunk[:nr]...)
		recvPool.Put(scratch)
	}
}
