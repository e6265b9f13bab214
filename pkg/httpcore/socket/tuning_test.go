package socket

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestListenTCPRejectsBadAddress(t *testing.T) {
	if _, err := ListenTCP("not-an-ip", 8080); err == nil {
		t.Fatalf("expected error for invalid address")
	}
	if _, err := ListenTCP("2001:db8::1", 8080); err == nil {
		t.Fatalf("expected error for IPv6 address")
	}
}

func TestListenTCPBindsEphemeralPort(t *testing.T) {
	h, err := ListenTCP("127.0.0.1", 0)
	if err != nil {
		t.Fatalf("ListenTCP: %v", err)
	}
	defer h.Close()

	if err := Listen(h, 128); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	sa, err := unix.Getsockname(h.Fd())
	if err != nil {
		t.Fatalf("Getsockname: %v", err)
	}
	if _, ok := sa.(*unix.SockaddrInet4); !ok {
		t.Fatalf("sockaddr type = %T, want *unix.SockaddrInet4", sa)
	}
}

func TestListenUnixUnlinksStaleFile(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "nested", "server.sock")

	if err := os.MkdirAll(filepath.Dir(sockPath), 0o755); err != nil {
		t.Fatalf("seed dir: %v", err)
	}
	if err := os.WriteFile(sockPath, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}

	h, err := ListenUnix(sockPath)
	if err != nil {
		t.Fatalf("ListenUnix: %v", err)
	}
	defer h.Close()
	defer os.Remove(sockPath)

	if err := Listen(h, 128); err != nil {
		t.Fatalf("Listen: %v", err)
	}
}

func TestListenUnixCreatesMissingParentDir(t *testing.T) {
	dir := t.TempDir()
	sockPath := filepath.Join(dir, "a", "b", "c.sock")

	h, err := ListenUnix(sockPath)
	if err != nil {
		t.Fatalf("ListenUnix: %v", err)
	}
	defer h.Close()
	defer os.Remove(sockPath)

	if _, err := os.Stat(filepath.Dir(sockPath)); err != nil {
		t.Fatalf("parent dir not created: %v", err)
	}
}
