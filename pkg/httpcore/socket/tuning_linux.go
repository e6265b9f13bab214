//go:build linux
// +build linux

package socket

import "golang.org/x/sys/unix"

// Linux-specific TCP socket options not exposed by golang.org/x/sys/unix's
// named constants on every supported kernel version.
const (
	tcpQuickAck    = 12
	tcpUserTimeout = 18
)

// applyPlatformOptions applies Linux-specific best-effort tuning to an
// accepted connection descriptor. Failures are ignored: none of these
// options are required for correctness, only latency.
func applyPlatformOptions(fd int, cfg *Config) {
	if cfg.QuickAck {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, tcpQuickAck, 1)
	}
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, tcpUserTimeout, 10000)
}
