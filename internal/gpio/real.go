//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/airquality-sensor/internal/logic"
)

// Chip wraps a GPIO character device shared by all input pins.
type Chip struct {
	chip *gpiocdev.Chip
}

// OpenChip opens the named GPIO character device.
func OpenChip(name string) (*Chip, error) {
	c, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &Chip{chip: c}, nil
}

// Pin requests the given line offset as an input with pull-up, the correct
// bias for the active-low button and data-ready signals, which float when
// not asserted.
func (c *Chip) Pin(offset int) (*RealPin, error) {
	line, err := c.chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("request line %d: %w", offset, err)
	}
	return &RealPin{line: line}, nil
}

// Close releases the chip. Pins requested from it must be closed first.
func (c *Chip) Close() error {
	if err := c.chip.Close(); err != nil {
		return fmt.Errorf("close chip: %w", err)
	}
	return nil
}

// RealPin reads a GPIO line from actual hardware.
type RealPin struct {
	line *gpiocdev.Line
}

// Level returns the current level of the line.
func (p *RealPin) Level() (logic.Level, error) {
	v, err := p.line.Value()
	if err != nil {
		return logic.Low, fmt.Errorf("read line: %w", err)
	}
	if v == 0 {
		return logic.Low, nil
	}
	return logic.High, nil
}

// Close releases the line.
func (p *RealPin) Close() error {
	if err := p.line.Close(); err != nil {
		return fmt.Errorf("close line: %w", err)
	}
	return nil
}
