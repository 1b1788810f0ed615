//go:build linux

package evloop

import (
	"encoding/binary"
	"fmt"
	"log"
	"time"

	"golang.org/x/sys/unix"
)

// Timer is a periodic readiness source backed by a timerfd. The kernel
// keeps a count of expirations since the last read; the descriptor stays
// readable until that count is drained, so the owning callback must call
// Consume exactly once before returning. A callback that forgets re-fires
// on the very next wait with no elapsed time. That is a programmer
// contract, not something the loop enforces.
type Timer struct {
	fd     int
	onFire func(*Timer)
}

// NewTimer creates a periodic timer firing every interval and registers it
// with the multiplexer. The first firing occurs one full interval after
// creation.
func NewTimer(m *Multiplexer, interval time.Duration, onFire func(*Timer)) (*Timer, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("evloop: timer interval must be positive, got %v", interval)
	}

	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("evloop: timerfd_create: %w", err)
	}

	ts := unix.NsecToTimespec(interval.Nanoseconds())
	spec := unix.ItimerSpec{Interval: ts, Value: ts}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("evloop: timerfd_settime: %w", err)
	}

	t := &Timer{fd: fd, onFire: onFire}
	if err := m.Register(fd, func() { t.onFire(t) }); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return t, nil
}

// Consume drains the pending expiration count, clearing the timer's
// readiness until it next fires. A failure here means the descriptor is
// broken and callers must treat it as a fatal I/O error.
func (t *Timer) Consume() error {
	var buf [8]byte
	n, err := unix.Read(t.fd, buf[:])
	if err != nil {
		return fmt.Errorf("evloop: consume timer fd %d: %w", t.fd, err)
	}
	if n != len(buf) {
		return fmt.Errorf("evloop: consume timer fd %d: short read of %d bytes", t.fd, n)
	}
	if count := binary.NativeEndian.Uint64(buf[:]); count > 1 {
		// A callback ran longer than the interval and expirations piled up.
		// They were serviced as one firing; note it and move on.
		log.Printf("evloop: timer fd %d missed %d expirations", t.fd, count-1)
	}
	return nil
}

// Fd returns the underlying descriptor.
func (t *Timer) Fd() int {
	return t.fd
}

// Close disarms and closes the timer. The caller is responsible for
// unregistering it first if the loop is still running.
func (t *Timer) Close() error {
	if t.fd < 0 {
		return nil
	}
	err := unix.Close(t.fd)
	t.fd = -1
	if err != nil {
		return fmt.Errorf("evloop: close timer fd: %w", err)
	}
	return nil
}
