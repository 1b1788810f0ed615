//go:build linux

package evloop

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Multiplexer wraps an epoll instance and a registry mapping each file
// descriptor to its readiness callback. Not safe for concurrent use; it
// belongs to the loop's goroutine.
type Multiplexer struct {
	epfd    int
	sources map[int]func()
	order   []int // fds in registration order, for stable dispatch
	events  []unix.EpollEvent
}

// NewMultiplexer creates the epoll instance. Fails only on resource
// exhaustion.
func NewMultiplexer() (*Multiplexer, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("evloop: epoll_create1: %w", err)
	}
	return &Multiplexer{
		epfd:    epfd,
		sources: make(map[int]func()),
		events:  make([]unix.EpollEvent, 16),
	}, nil
}

// Register associates a readiness-able descriptor with a callback. The
// callback runs on the loop goroutine, at most once per WaitDispatch call.
func (m *Multiplexer) Register(fd int, onReady func()) error {
	if fd < 0 {
		return fmt.Errorf("evloop: register: invalid fd %d", fd)
	}
	if _, dup := m.sources[fd]; dup {
		return fmt.Errorf("evloop: register: fd %d already registered", fd)
	}

	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(m.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("evloop: epoll_ctl add fd %d: %w", fd, err)
	}

	m.sources[fd] = onReady
	m.order = append(m.order, fd)
	if len(m.order) > len(m.events) {
		m.events = make([]unix.EpollEvent, len(m.order))
	}
	return nil
}

// Unregister removes a descriptor from the watch set. Sources are normally
// registered for the life of the process; this exists so a source that is
// being closed mid-run (never in the current design) leaves no stale entry.
func (m *Multiplexer) Unregister(fd int) error {
	if _, ok := m.sources[fd]; !ok {
		return fmt.Errorf("evloop: unregister: fd %d not registered", fd)
	}
	if err := unix.EpollCtl(m.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("evloop: epoll_ctl del fd %d: %w", fd, err)
	}
	delete(m.sources, fd)
	for i, o := range m.order {
		if o == fd {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// WaitDispatch blocks until at least one registered descriptor is ready,
// then invokes each ready descriptor's callback exactly once, in
// registration order. Signal interruption is retried transparently; the
// call never returns with zero events serviced.
func (m *Multiplexer) WaitDispatch() error {
	var n int
	for {
		var err error
		n, err = unix.EpollWait(m.epfd, m.events, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("evloop: epoll_wait: %w", err)
		}
		break
	}

	// epoll reports in arrival order; dispatch must follow registration
	// order so simultaneously-ready sources are serviced predictably.
	ready := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		ready[int(m.events[i].Fd)] = true
	}
	for _, fd := range m.order {
		if !ready[fd] {
			continue
		}
		if cb := m.sources[fd]; cb != nil {
			cb()
		}
	}
	return nil
}

// Close releases the epoll descriptor. Registered sources own their own
// descriptors and are closed separately.
func (m *Multiplexer) Close() error {
	if m.epfd < 0 {
		return nil
	}
	err := unix.Close(m.epfd)
	m.epfd = -1
	if err != nil {
		return fmt.Errorf("evloop: close epoll fd: %w", err)
	}
	return nil
}
