package loop

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/yourusername/httpcore/internal/logging"
	"github.com/yourusername/httpcore/pkg/httpcore/conn"
	"github.com/yourusername/httpcore/pkg/httpcore/fdhandle"
	"github.com/yourusername/httpcore/pkg/httpcore/router"
	"github.com/yourusername/httpcore/pkg/httpcore/socket"
)

// DefaultMaxEventsPerLoop is the default per-iteration readiness batch size.
const DefaultMaxEventsPerLoop = 12

// Config collects the loop's tunables, each with a usable default.
type Config struct {
	MaxEventsPerLoop int
	MaxHeaderBytes   int
	RecvBufferSize   int
	SocketTuning     *socket.Config
	Logger           logging.Logger
}

// Loop owns the listening descriptor, the readiness notifier, and every
// accepted connection's state. It is driven entirely from the goroutine
// that calls Run; Kill is the only method safe to call from elsewhere.
type Loop struct {
	listen *fdhandle.Handle
	routes *router.Table
	poller Poller
	conns  map[int]*conn.Conn

	killR, killW int

	cfg Config
}

// New constructs a Loop over an already-bound, not-yet-listening socket.
func New(listen *fdhandle.Handle, routes *router.Table, cfg Config) (*Loop, error) {
	if cfg.MaxEventsPerLoop <= 0 {
		cfg.MaxEventsPerLoop = DefaultMaxEventsPerLoop
	}
	if cfg.MaxHeaderBytes <= 0 {
		cfg.MaxHeaderBytes = 8192
	}
	if cfg.RecvBufferSize <= 0 {
		cfg.RecvBufferSize = socket.SendRecvBufferBytes
	}
	if cfg.SocketTuning == nil {
		cfg.SocketTuning = socket.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard
	}

	poller, err := newPoller()
	if err != nil {
		return nil, fmt.Errorf("loop: create readiness notifier: %w", err)
	}

	pipeFds := make([]int, 2)
	if err := unix.Pipe(pipeFds); err != nil {
		poller.Close()
		return nil, fmt.Errorf("loop: create kill pipe: %w", err)
	}
	unix.SetNonblock(pipeFds[0], true)
	unix.SetNonblock(pipeFds[1], true)

	return &Loop{
		listen: listen,
		routes: routes,
		poller: poller,
		conns:  make(map[int]*conn.Conn),
		killR:  pipeFds[0],
		killW:  pipeFds[1],
		cfg:    cfg,
	}, nil
}

// Run performs listen(backlog) and enters the event loop, returning nil on
// a clean Kill and a non-nil error for a loop-fatal condition. It always
// closes the listening descriptor, every still-open connection, and the
// readiness notifier before returning — any connections still in flight
// are dropped rather than drained.
func (l *Loop) Run(backlog int) error {
	defer l.shutdown()

	if err := socket.Listen(l.listen, backlog); err != nil {
		return err
	}
	if err := l.poller.AddRead(l.listen.Fd()); err != nil {
		return fmt.Errorf("loop: register listening descriptor: %w", err)
	}
	if err := l.poller.AddRead(l.killR); err != nil {
		return fmt.Errorf("loop: register kill pipe: %w", err)
	}

	for {
		events, err := l.poller.Wait(l.cfg.MaxEventsPerLoop)
		if err != nil {
			l.cfg.Logger.Error().Err(err).Msg("readiness wait failed, stopping loop")
			return fmt.Errorf("loop: readiness wait: %w", err)
		}

		for _, ev := range events {
			switch ev.Fd {
			case l.killR:
				return nil
			case l.listen.Fd():
				if ev.Error {
					l.cfg.Logger.Error().Msg("listening socket error, stopping loop")
					return fmt.Errorf("loop: listening socket error")
				}
				if ev.Hangup {
					return nil
				}
				l.accept()
			default:
				l.dispatch(ev)
			}
		}
	}
}

// Kill requests a graceful shutdown. Safe to call from any goroutine; Run
// returns within one loop iteration.
func (l *Loop) Kill() {
	var b [1]byte
	unix.Write(l.killW, b[:])
}

func (l *Loop) accept() {
	fd, _, err := unix.Accept(l.listen.Fd())
	if err != nil {
		return
	}
	if err := socket.TuneAccepted(fd, l.cfg.SocketTuning); err != nil {
		unix.Close(fd)
		return
	}
	if err := l.poller.AddReadWrite(fd); err != nil {
		unix.Close(fd)
		return
	}
	h := fdhandle.New(fd)
	l.conns[fd] = conn.New(h, l.cfg.MaxHeaderBytes, l.cfg.RecvBufferSize)
}

func (l *Loop) dispatch(ev Event) {
	c, ok := l.conns[ev.Fd]
	if !ok {
		l.poller.Remove(ev.Fd)
		return
	}
	if ev.Error || ev.Hangup {
		l.remove(ev.Fd, c)
		return
	}

	var closeConn bool
	switch c.Stage {
	case conn.StageReq:
		if ev.Readable {
			closeConn = c.OnReadable(l.routes, l.cfg.Logger)
		}
	case conn.StageFunc:
		closeConn = c.PumpFunc()
	case conn.StageRes:
		if ev.Writable {
			closeConn = c.OnWritable()
		}
	}

	if closeConn {
		l.remove(ev.Fd, c)
	}
}

func (l *Loop) remove(fd int, c *conn.Conn) {
	l.poller.Remove(fd)
	c.Close()
	delete(l.conns, fd)
}

func (l *Loop) shutdown() {
	for fd, c := range l.conns {
		l.poller.Remove(fd)
		c.Close()
		delete(l.conns, fd)
	}
	unix.Close(l.killR)
	unix.Close(l.killW)
	l.listen.Close()
	l.poller.Close()
}
