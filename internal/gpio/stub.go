//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/airquality-sensor/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// Chip is not available on non-Linux platforms.
type Chip struct{}

// OpenChip returns an error on non-Linux platforms.
func OpenChip(name string) (*Chip, error) {
	return nil, errUnsupported
}

// Pin is not implemented on non-Linux platforms.
func (c *Chip) Pin(offset int) (*RealPin, error) {
	return nil, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (c *Chip) Close() error { return nil }

// RealPin is not available on non-Linux platforms.
type RealPin struct{}

// Level is not implemented on non-Linux platforms.
func (p *RealPin) Level() (logic.Level, error) {
	return logic.Low, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (p *RealPin) Close() error { return nil }
