// Package socket constructs the raw, non-blocking listening sockets the
// event loop drives directly, plus the small amount of per-OS latency
// tuning applied to accepted connections.
package socket

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/yourusername/httpcore/pkg/httpcore/fdhandle"
)

// SendRecvBufferBytes is the SO_SNDBUF/SO_RCVBUF hint applied to every TCP
// listener. The kernel doubles and floors this value, so it is a hint,
// not a guaranteed per-recv ceiling.
const SendRecvBufferBytes = 8192

// Config tunes best-effort, platform-specific socket options applied to
// accepted connections. None of these affect correctness.
type Config struct {
	// QuickAck requests TCP_QUICKACK on Linux; ignored elsewhere.
	QuickAck bool
}

// DefaultConfig returns the tuning this module applies unless overridden.
func DefaultConfig() *Config {
	return &Config{QuickAck: true}
}

// ListenTCP creates, configures, and binds an IPv4 TCP listening socket:
// SO_REUSEADDR|SO_REUSEPORT, 8192-byte send/receive buffer hints,
// non-blocking. The caller still must call Listen.
func ListenTCP(ip string, port int) (*fdhandle.Handle, error) {
	addr := net.ParseIP(ip)
	if addr == nil || addr.To4() == nil {
		return nil, fmt.Errorf("socket: invalid IPv4 address %q", ip)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: socket: %w", err)
	}
	h := fdhandle.New(fd)

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		h.Close()
		return nil, fmt.Errorf("socket: SO_REUSEADDR: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		h.Close()
		return nil, fmt.Errorf("socket: SO_REUSEPORT: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, SendRecvBufferBytes); err != nil {
		h.Close()
		return nil, fmt.Errorf("socket: SO_SNDBUF: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, SendRecvBufferBytes); err != nil {
		h.Close()
		return nil, fmt.Errorf("socket: SO_RCVBUF: %w", err)
	}

	var sa unix.SockaddrInet4
	copy(sa.Addr[:], addr.To4())
	sa.Port = port
	if err := unix.Bind(fd, &sa); err != nil {
		h.Close()
		return nil, fmt.Errorf("socket: bind: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		h.Close()
		return nil, fmt.Errorf("socket: set nonblocking: %w", err)
	}
	return h, nil
}

// ListenUnix creates, configures, and binds a UNIX stream listening socket
// at path: the parent directory is created if missing, any stale socket
// file at path is unlinked, and the result is non-blocking.
func ListenUnix(path string) (*fdhandle.Handle, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("socket: create parent directory: %w", err)
		}
	}
	_ = os.Remove(path)

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: socket: %w", err)
	}
	h := fdhandle.New(fd)

	if err := unix.Bind(fd, &unix.SockaddrUnix{Name: path}); err != nil {
		h.Close()
		return nil, fmt.Errorf("socket: bind: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		h.Close()
		return nil, fmt.Errorf("socket: set nonblocking: %w", err)
	}
	return h, nil
}

// Listen marks a bound socket as willing to accept connections, with the
// given backlog.
func Listen(h *fdhandle.Handle, backlog int) error {
	if err := unix.Listen(h.Fd(), backlog); err != nil {
		return fmt.Errorf("socket: listen: %w", err)
	}
	return nil
}

// TuneAccepted sets the socket non-blocking and applies this platform's
// best-effort latency tuning to a freshly accepted connection descriptor.
func TuneAccepted(fd int, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("socket: set nonblocking: %w", err)
	}
	applyPlatformOptions(fd, cfg)
	return nil
}
