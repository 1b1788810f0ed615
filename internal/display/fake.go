package display

import "image"

// FakeDevice records frames pushed to it for test assertions.
type FakeDevice struct {
	// W, H are the simulated panel dimensions.
	W, H int

	// Frames contains every image pushed via Draw, oldest first.
	Frames []image.Image

	// DrawError, if set, will be returned by Draw.
	DrawError error

	// Halted tracks if Halt was called.
	Halted bool
}

// NewFakeDevice creates a fake 128x64 panel.
func NewFakeDevice() *FakeDevice {
	return &FakeDevice{W: 128, H: 64}
}

// Draw records the frame.
func (f *FakeDevice) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if f.DrawError != nil {
		return f.DrawError
	}
	f.Frames = append(f.Frames, src)
	return nil
}

// Bounds returns the simulated panel bounds.
func (f *FakeDevice) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.W, f.H)
}

// Halt marks the device as halted.
func (f *FakeDevice) Halt() error {
	f.Halted = true
	return nil
}

// LastFrame returns the most recently pushed frame, or nil.
func (f *FakeDevice) LastFrame() image.Image {
	if len(f.Frames) == 0 {
		return nil
	}
	return f.Frames[len(f.Frames)-1]
}
