//go:build !linux && !darwin
// +build !linux,!darwin

package loop

import (
	"sync"

	"golang.org/x/sys/unix"
)

// pollPoller is the fallback readiness notifier for platforms without
// epoll or kqueue, built on the portable poll(2) syscall. O(registered
// descriptors) per Wait call rather than epoll/kqueue's O(ready
// descriptors), which is the accepted tradeoff for a rarely-hit platform.
type pollPoller struct {
	mu     sync.Mutex
	events map[int]int16
}

func newPoller() (Poller, error) {
	return &pollPoller{events: make(map[int]int16)}, nil
}

func (p *pollPoller) AddRead(fd int) error {
	p.mu.Lock()
	p.events[fd] = unix.POLLIN
	p.mu.Unlock()
	return nil
}

func (p *pollPoller) AddReadWrite(fd int) error {
	p.mu.Lock()
	p.events[fd] = unix.POLLIN | unix.POLLOUT
	p.mu.Unlock()
	return nil
}

func (p *pollPoller) Remove(fd int) error {
	p.mu.Lock()
	delete(p.events, fd)
	p.mu.Unlock()
	return nil
}

func (p *pollPoller) Wait(maxEvents int) ([]Event, error) {
	p.mu.Lock()
	fds := make([]unix.PollFd, 0, len(p.events))
	for fd, ev := range p.events {
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: ev})
	}
	p.mu.Unlock()

	_, err := unix.Poll(fds, -1)
	if err == unix.EINTR {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]Event, 0, len(fds))
	for _, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}
		out = append(out, Event{
			Fd:       int(pfd.Fd),
			Readable: pfd.Revents&unix.POLLIN != 0,
			Writable: pfd.Revents&unix.POLLOUT != 0,
			Error:    pfd.Revents&unix.POLLERR != 0,
			Hangup:   pfd.Revents&unix.POLLHUP != 0,
		})
		if len(out) >= maxEvents {
			break
		}
	}
	return out, nil
}

func (p *pollPoller) Close() error {
	return nil
}
