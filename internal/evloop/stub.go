//go:build !linux

package evloop

import (
	"errors"
	"time"
)

var errUnsupported = errors.New("evloop: not supported on this platform (requires Linux epoll/timerfd)")

// Multiplexer is not available on non-Linux platforms.
type Multiplexer struct{}

// NewMultiplexer returns an error on non-Linux platforms.
func NewMultiplexer() (*Multiplexer, error) {
	return nil, errUnsupported
}

// Register is not implemented on non-Linux platforms.
func (m *Multiplexer) Register(fd int, onReady func()) error { return errUnsupported }

// Unregister is not implemented on non-Linux platforms.
func (m *Multiplexer) Unregister(fd int) error { return errUnsupported }

// WaitDispatch is not implemented on non-Linux platforms.
func (m *Multiplexer) WaitDispatch() error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (m *Multiplexer) Close() error { return nil }

// Timer is not available on non-Linux platforms.
type Timer struct{}

// NewTimer returns an error on non-Linux platforms.
func NewTimer(m *Multiplexer, interval time.Duration, onFire func(*Timer)) (*Timer, error) {
	return nil, errUnsupported
}

// Consume is not implemented on non-Linux platforms.
func (t *Timer) Consume() error { return errUnsupported }

// Fd is not implemented on non-Linux platforms.
func (t *Timer) Fd() int { return -1 }

// Close is not implemented on non-Linux platforms.
func (t *Timer) Close() error { return nil }

// Wake is not available on non-Linux platforms.
type Wake struct{}

// NewWake returns an error on non-Linux platforms.
func NewWake(m *Multiplexer) (*Wake, error) { return nil, errUnsupported }

// Kick is a no-op on non-Linux platforms.
func (w *Wake) Kick() {}

// Close is not implemented on non-Linux platforms.
func (w *Wake) Close() error { return nil }
