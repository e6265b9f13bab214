//go:build darwin
// +build darwin

package socket

import "golang.org/x/sys/unix"

// applyPlatformOptions applies Darwin-specific best-effort tuning to an
// accepted connection descriptor.
func applyPlatformOptions(fd int, cfg *Config) {
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)
}
