// Package logic contains pure signal logic for the air-quality monitor.
// This package has NO external dependencies (no GPIO, I2C, OS, or time.Sleep).
// Inputs are always plain sampled values supplied by the caller.
package logic

// Level represents the sampled state of a digital input.
type Level int

const (
	Low Level = iota
	High
)

// String returns "LOW" or "HIGH".
func (l Level) String() string {
	if l == Low {
		return "LOW"
	}
	return "HIGH"
}

// EdgeDetector detects transitions to an asserted level on a polled input.
//
// The platform delivers no true GPIO interrupts, so inputs are sampled on a
// fast timer and compared against the previous sample. Detection latency is
// bounded by the poll interval; a pulse shorter than one interval can be
// missed entirely. There is no filtering beyond the single-sample
// comparison.
type EdgeDetector struct {
	asserted Level
	last     Level
	primed   bool
}

// NewEdgeDetector returns a detector that fires on transitions to the
// asserted level. Both monitored inputs in this design are active-low, so
// asserted is Low for the button and the data-ready signal.
func NewEdgeDetector(asserted Level) *EdgeDetector {
	return &EdgeDetector{asserted: asserted}
}

// Sample feeds the current level and reports whether an asserting edge
// occurred since the previous sample. The first sample only establishes the
// baseline and never fires. The remembered level is updated on every call,
// whether or not an edge fired.
func (d *EdgeDetector) Sample(now Level) bool {
	if !d.primed {
		d.primed = true
		d.last = now
		return false
	}

	fired := now != d.last && now == d.asserted
	d.last = now
	return fired
}

// Last returns the most recently sampled level. Meaningless before the
// first Sample call.
func (d *EdgeDetector) Last() Level {
	return d.last
}
