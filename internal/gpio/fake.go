package gpio

import (
	"errors"

	"github.com/sweeney/airquality-sensor/internal/logic"
)

// FakePin is a test double that returns scripted levels.
type FakePin struct {
	// Levels contains scripted values to return.
	// Each call to Level() consumes the next value.
	Levels []logic.Level

	// index tracks current position in Levels
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Level()
	ReadError error
}

// NewFakePin creates a FakePin with the given scripted levels.
func NewFakePin(levels ...logic.Level) *FakePin {
	return &FakePin{Levels: levels}
}

// Level returns the next scripted level.
// If the script is exhausted, the last level repeats.
func (f *FakePin) Level() (logic.Level, error) {
	if f.ReadError != nil {
		return logic.Low, f.ReadError
	}

	if len(f.Levels) == 0 {
		return logic.Low, errors.New("no levels configured")
	}

	l := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}
	return l, nil
}

// Close marks the pin as closed.
func (f *FakePin) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the script.
func (f *FakePin) Reset() {
	f.index = 0
	f.Closed = false
}
