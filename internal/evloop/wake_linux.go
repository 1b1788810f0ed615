//go:build linux

package evloop

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// Wake is an eventfd readiness source used to interrupt a blocked
// WaitDispatch from another goroutine. The signal watcher writes to it
// after setting the termination token so the loop observes the token
// without waiting for the next timer to fire.
type Wake struct {
	fd int
}

// NewWake creates the eventfd and registers it with the multiplexer. Its
// callback only drains the counter; the real work happens when the loop
// re-checks the termination token.
func NewWake(m *Multiplexer) (*Wake, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("evloop: eventfd: %w", err)
	}

	w := &Wake{fd: fd}
	if err := m.Register(fd, w.drain); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return w, nil
}

// Kick makes the multiplexer ready. Safe from any goroutine; performs a
// single write syscall and nothing else, preserving the
// async-signal-safety discipline of the handler it replaces.
func (w *Wake) Kick() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, _ = unix.Write(w.fd, buf[:])
}

func (w *Wake) drain() {
	var buf [8]byte
	_, _ = unix.Read(w.fd, buf[:])
}

// Close releases the eventfd.
func (w *Wake) Close() error {
	if w.fd < 0 {
		return nil
	}
	err := unix.Close(w.fd)
	w.fd = -1
	if err != nil {
		return fmt.Errorf("evloop: close wake fd: %w", err)
	}
	return nil
}
