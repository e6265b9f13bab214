// Package conn implements the per-connection REQ/FUNC/RES state machine:
// REQ parses the request, FUNC routes and runs the handler, RES drains the
// serialized response.
package conn

import (
	"fmt"
	"time"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/sys/unix"

	"github.com/yourusername/httpcore/internal/logging"
	"github.com/yourusername/httpcore/pkg/httpcore/body"
	"github.com/yourusername/httpcore/pkg/httpcore/fdhandle"
	"github.com/yourusername/httpcore/pkg/httpcore/http11"
	"github.com/yourusername/httpcore/pkg/httpcore/parsebuf"
	"github.com/yourusername/httpcore/pkg/httpcore/router"
)

// recvPool reuses the scratch buffers OnReadable reads into, so a
// keep-alive connection serving many requests doesn't allocate one
// recvBufSize chunk per readiness event.
var recvPool bytebufferpool.Pool

// Stage is the connection's position in the REQ/FUNC/RES state machine.
type Stage int

const (
	StageReq Stage = iota
	StageFunc
	StageRes
)

func (s Stage) String() string {
	switch s {
	case StageReq:
		return "REQ"
	case StageFunc:
		return "FUNC"
	case StageRes:
		return "RES"
	default:
		return "UNKNOWN"
	}
}

// Conn is one accepted connection's full state: its descriptor, stage,
// parse/outbound buffers, and the in-flight request/response. It is owned
// exclusively by the event loop thread, except for the body reader it may
// hand to a suspended handler goroutine.
type Conn struct {
	Handle  *fdhandle.Handle
	Stage   Stage
	In      *parsebuf.Buffer
	Out     *parsebuf.Buffer
	Req     *http11.Request
	Resp    *http11.Response

	maxHeaderBytes int
	recvBufSize    int

	bodyReader    *body.Reader
	handlerDone   chan struct{}
	handlerFailed bool
}

// New returns a fresh connection in stage REQ.
func New(h *fdhandle.Handle, maxHeaderBytes, recvBufSize int) *Conn {
	return &Conn{
		Handle:         h,
		Stage:          StageReq,
		In:             parsebuf.New(),
		Out:            parsebuf.New(),
		Req:            http11.NewRequest(),
		Resp:           http11.NewResponse(),
		maxHeaderBytes: maxHeaderBytes,
		recvBufSize:    recvBufSize,
	}
}

// OnReadable handles one readable-readiness event while in stage REQ. It
// performs one non-blocking receive, feeds the bytes to the parser, and
// enforces the header-block size cap. closeConn reports whether the loop
// should tear the connection down.
func (c *Conn) OnReadable(routes *router.Table, log logging.Logger) (closeConn bool) {
	if c.Stage != StageReq {
		return false
	}

	scratch := recvPool.Get()
	defer recvPool.Put(scratch)
	scratch.B = scratch.B[:cap(scratch.B)]
	if len(scratch.B) < c.recvBufSize {
		scratch.B = make([]byte, c.recvBufSize)
	}
	chunk := scratch.B[:c.recvBufSize]

	n, err := unix.Read(c.Handle.Fd(), chunk)
	switch {
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return false
	case err != nil:
		log.Debug().Err(err).Msg("recv failed on connection in REQ, closing")
		return true
	case n == 0:
		return true
	}

	c.In.Append(chunk[:n])
	complete, perr := http11.Parse(c.In, c.Req)
	if perr != nil {
		c.enterRes(http11.StatusBadRequest, http11.ReasonBadRequest, perr.Error())
		return false
	}
	// Len, not SizeBeforeCursor: a header sub-step can roll back to the last
	// commit point indefinitely (e.g. a header key with no terminating colon
	// ever arriving), which would hold SizeBeforeCursor well under the cap
	// while the buffer's actual accumulated bytes grow without bound.
	if c.In.Len() > c.maxHeaderBytes {
		err := fmt.Errorf("header block exceeds %d bytes: %w", c.maxHeaderBytes, http11.ErrHeadersTooLarge)
		c.enterRes(http11.StatusBadRequest, http11.ReasonBadRequest, err.Error())
		return false
	}
	if complete {
		c.route(routes)
	}
	return false
}

// route resolves request.path/method against the route table and either
// synthesizes an error response directly or starts the handler.
func (c *Conn) route(routes *router.Table) {
	h, pathExists, found := routes.Lookup(c.Req.Path, c.Req.Method)
	if !pathExists {
		c.enterRes(http11.StatusNotFound, http11.ReasonNotFound,
			fmt.Sprintf("The requested resource %s was not found", c.Req.Path))
		return
	}
	if !found {
		c.enterRes(http11.StatusMethodNotAllowed, http11.ReasonMethodNotAllowed,
			fmt.Sprintf("Method %s is not allowed for %s", c.Req.Method, c.Req.Path))
		return
	}

	c.Stage = StageFunc
	contentLength, _ := c.Req.ContentLength()
	c.bodyReader = body.New(c.Handle, c.recvBufSize, contentLength)
	c.handlerDone = make(chan struct{})

	req, resp, reader := c.Req, c.Resp, c.bodyReader
	done := c.handlerDone
	go func() {
		defer close(done)
		defer func() {
			if recover() != nil {
				c.handlerFailed = true
			}
		}()
		h(req, resp, reader)
	}()
}

// PumpFunc is called on any readiness event for a connection parked in
// FUNC. It wakes a suspended body reader and checks whether the handler
// has finished; the loop itself has nothing else to do at this stage.
// closeConn reports whether the handler panicked — a handler's abnormal
// termination is treated as a per-connection transport error, closing only
// this connection rather than propagating the panic up through the shared
// event loop goroutine.
func (c *Conn) PumpFunc() (closeConn bool) {
	if c.Stage != StageFunc {
		return false
	}
	if c.bodyReader != nil {
		c.bodyReader.Notify()
	}
	select {
	case <-c.handlerDone:
		if c.handlerFailed {
			return true
		}
		c.prepareResponse()
	default:
	}
	return false
}

// OnWritable drains the outbound buffer on writable readiness while in
// stage RES. closeConn reports whether the connection should be torn down:
// a transport error, or a fully-drained response whose request asked for
// Connection: close.
func (c *Conn) OnWritable() (closeConn bool) {
	if c.Stage != StageRes {
		return false
	}

	pending := c.Out.BytesAfterCursor()
	if len(pending) == 0 {
		return c.finishResponse()
	}

	n, err := unix.Write(c.Handle.Fd(), pending)
	switch {
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return false
	case err != nil:
		return true
	}

	c.Out.Increment(n)
	if c.Out.SizeAfterCursor() == 0 {
		return c.finishResponse()
	}
	return false
}

func (c *Conn) finishResponse() bool {
	if c.Req.Connection() == http11.ConnectionClose {
		return true
	}
	c.reset()
	return false
}

// enterRes synthesizes an error response body and transitions directly to
// RES, skipping FUNC: parser-fatal and routing failures both synthesize a
// response themselves rather than invoking a handler.
func (c *Conn) enterRes(code int, reason, bodyText string) {
	c.Resp.Reset()
	c.Resp.SetStatus(code, reason)
	c.Resp.SetBody([]byte(bodyText))
	c.prepareResponse()
}

// prepareResponse stamps Date and serializes the response into the
// outbound buffer, then transitions to RES.
func (c *Conn) prepareResponse() {
	c.Resp.SetDate(time.Now())
	c.Out.Assign(http11.Serialize(c.Resp))
	c.Stage = StageRes
}

// reset returns the connection to REQ for the next request on the same
// keep-alive connection, preserving the descriptor handle.
func (c *Conn) reset() {
	c.In.Rewind()
	c.Out.Assign(nil)
	c.Req.Reset()
	c.Resp.Reset()
	c.bodyReader = nil
	c.handlerDone = nil
	c.Stage = StageReq
}

// Close closes the connection's descriptor. Safe to call once the
// connection has been removed from the loop's map.
func (c *Conn) Close() error {
	return c.Handle.Close()
}
