package fdhandle

import (
	"sync"
	"testing"

	"golang.org/x/sys/unix"
)

func pipeFDs(t *testing.T) (int, int) {
	t.Helper()
	fds := make([]int, 2)
	if err := unix.Pipe(fds); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	return fds[0], fds[1]
}

func TestCloseIsIdempotent(t *testing.T) {
	r, _ := pipeFDs(t)
	h := New(r)

	if err := h.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if h.Valid() {
		t.Fatalf("handle still valid after close")
	}
	if h.Fd() != Invalid {
		t.Fatalf("Fd() = %d, want Invalid", h.Fd())
	}
}

func TestCloseFromAnotherGoroutine(t *testing.T) {
	r, _ := pipeFDs(t)
	h := New(r)

	var wg sync.WaitGroup
	wg.Add(8)
	for i := 0; i < 8; i++ {
		go func() {
			defer wg.Done()
			h.Close()
		}()
	}
	wg.Wait()

	if h.Valid() {
		t.Fatalf("handle still valid")
	}
}

func TestFdReadsDuringConcurrentClose(t *testing.T) {
	r, _ := pipeFDs(t)
	h := New(r)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.Close()
	}()
	go func() {
		defer wg.Done()
		_ = h.Fd() // must never panic or data-race
	}()
	wg.Wait()
}
