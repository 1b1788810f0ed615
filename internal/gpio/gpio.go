// Package gpio provides digital input pin reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
//
// The platform exposes no usable interrupt delivery for these lines, so
// pins are level-read on a timer and edge-detected in software
// (internal/logic). Both inputs in this design are active-low.
package gpio

import "github.com/sweeney/airquality-sensor/internal/logic"

// Pin reads a single digital input.
type Pin interface {
	// Level returns the current sampled level of the pin.
	Level() (logic.Level, error)

	// Close releases the pin.
	Close() error
}

// Default line offsets (BCM numbering on the reference carrier board).
const (
	DefaultPinButton    = 17 // manual push-button, active-low
	DefaultPinDataReady = 27 // gas sensor nINT/data-ready, active-low
)

// DefaultChip is the GPIO character device the pins live on.
const DefaultChip = "gpiochip0"
