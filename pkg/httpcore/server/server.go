// Package server is the embeddable entry point: construction, route
// registration, Serve, and Kill.
package server

import (
	"fmt"
	"net"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/yourusername/httpcore/internal/logging"
	"github.com/yourusername/httpcore/pkg/httpcore/fdhandle"
	"github.com/yourusername/httpcore/pkg/httpcore/loop"
	"github.com/yourusername/httpcore/pkg/httpcore/router"
	"github.com/yourusername/httpcore/pkg/httpcore/socket"
)

// Config collects every tunable the server exposes to its embedder.
type Config struct {
	// SocketBufferSize is the SO_SNDBUF/SO_RCVBUF hint on the TCP listener
	// and the per-recv chunk size used by the connection and body readers.
	SocketBufferSize int

	// Backlog is the listen() backlog.
	Backlog int

	// MaxEventsPerLoop caps how many ready descriptors one loop iteration
	// processes.
	MaxEventsPerLoop int

	// MaxHeaderBytes caps the request header block before a 400 is
	// synthesized.
	MaxHeaderBytes int

	// Tuning controls best-effort per-OS socket options applied to
	// accepted connections.
	Tuning *socket.Config

	// Logger receives per-connection (Debug) and loop-fatal (Error) log
	// events. A nil Logger discards everything.
	Logger logging.Logger
}

// DefaultConfig returns a Config with every tunable set to its default.
func DefaultConfig() Config {
	return Config{
		SocketBufferSize: socket.SendRecvBufferBytes,
		Backlog:          128,
		MaxEventsPerLoop: loop.DefaultMaxEventsPerLoop,
		MaxHeaderBytes:   8192,
		Tuning:           socket.DefaultConfig(),
		Logger:           logging.Discard,
	}
}

// Server is one embeddable instance: a bound socket, a route table, and
// the event loop that will drive them once Serve is called.
type Server struct {
	cfg    Config
	listen *fdhandle.Handle
	routes *router.Table
	loop   atomic.Pointer[loop.Loop]
}

// NewTCP constructs a Server bound to an IPv4 address and port. The socket
// is created, options applied, and bound; it is not yet listening.
func NewTCP(ip string, port int, cfg Config) (*Server, error) {
	h, err := socket.ListenTCP(ip, port)
	if err != nil {
		return nil, err
	}
	return newServer(h, cfg), nil
}

// NewUnix constructs a Server bound to a UNIX-domain socket path.
func NewUnix(path string, cfg Config) (*Server, error) {
	h, err := socket.ListenUnix(path)
	if err != nil {
		return nil, err
	}
	return newServer(h, cfg), nil
}

func newServer(h *fdhandle.Handle, cfg Config) *Server {
	if cfg.SocketBufferSize <= 0 {
		cfg.SocketBufferSize = socket.SendRecvBufferBytes
	}
	if cfg.Backlog <= 0 {
		cfg.Backlog = 128
	}
	if cfg.MaxEventsPerLoop <= 0 {
		cfg.MaxEventsPerLoop = loop.DefaultMaxEventsPerLoop
	}
	if cfg.MaxHeaderBytes <= 0 {
		cfg.MaxHeaderBytes = 8192
	}
	if cfg.Tuning == nil {
		cfg.Tuning = socket.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard
	}
	return &Server{
		cfg:    cfg,
		listen: h,
		routes: router.New(),
	}
}

// Register binds a handler to path and method. Must be called before
// Serve.
func (s *Server) Register(path, method string, h router.Handler) {
	s.routes.Register(path, method, h)
}

// Serve performs listen(backlog) and runs the event loop until Kill is
// called or a loop-fatal error occurs.
func (s *Server) Serve() error {
	l, err := loop.New(s.listen, s.routes, loop.Config{
		MaxEventsPerLoop: s.cfg.MaxEventsPerLoop,
		MaxHeaderBytes:   s.cfg.MaxHeaderBytes,
		RecvBufferSize:   s.cfg.SocketBufferSize,
		SocketTuning:     s.cfg.Tuning,
		Logger:           s.cfg.Logger,
	})
	if err != nil {
		return fmt.Errorf("server: serve: %w", err)
	}
	s.loop.Store(l)
	return l.Run(s.cfg.Backlog)
}

// Addr reports the address the listening socket is bound to. Mainly
// useful for tests that bind an ephemeral TCP port (port 0) and need to
// discover which port the kernel assigned.
func (s *Server) Addr() (net.Addr, error) {
	sa, err := unix.Getsockname(s.listen.Fd())
	if err != nil {
		return nil, fmt.Errorf("server: getsockname: %w", err)
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}, nil
	case *unix.SockaddrUnix:
		return &net.UnixAddr{Name: a.Name, Net: "unix"}, nil
	default:
		return nil, fmt.Errorf("server: unsupported socket address type %T", sa)
	}
}

// Kill requests that Serve return; Serve closes the listening descriptor
// on its way out. Safe to call from any goroutine, including before Serve
// has started the loop — in that case Kill just closes the listening
// descriptor directly, since there is no loop yet to stop.
func (s *Server) Kill() {
	if l := s.loop.Load(); l != nil {
		l.Kill()
		return
	}
	s.listen.Close()
}
