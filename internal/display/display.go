// Package display renders rows of text to a small monochrome OLED.
// The real device is an SSD1306 driven by periph; the fake implementation
// allows testing without hardware.
package display

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Device is the subset of the OLED driver the screen depends on.
// *ssd1306.Dev implements it.
type Device interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Bounds() image.Rectangle
	Halt() error
}

// Screen rasterizes fixed-pitch text into an off-screen 1-bit frame and
// pushes the whole frame to the device on Flush.
type Screen struct {
	dev  Device
	img  *image1bit.VerticalLSB
	face *basicfont.Face
}

// NewScreen wraps an OLED device in a text screen.
func NewScreen(dev Device) *Screen {
	return &Screen{
		dev:  dev,
		img:  image1bit.NewVerticalLSB(dev.Bounds()),
		face: basicfont.Face7x13,
	}
}

// Rows returns the number of text rows that fit on the device.
func (s *Screen) Rows() int {
	return s.img.Bounds().Dy() / s.face.Height
}

// Cols returns the number of text columns that fit on the device.
func (s *Screen) Cols() int {
	return s.img.Bounds().Dx() / s.face.Advance
}

// Clear blanks the off-screen frame. The device is untouched until Flush.
func (s *Screen) Clear() {
	s.img = image1bit.NewVerticalLSB(s.dev.Bounds())
}

// DrawText writes a string at the given text row and column. Text that
// would run past the right edge is clipped by the frame bounds; rows
// outside the screen are ignored.
func (s *Screen) DrawText(row, col int, text string) {
	if row < 0 || row >= s.Rows() || col < 0 {
		return
	}
	d := font.Drawer{
		Dst:  s.img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: s.face,
		Dot:  fixed.P(col*s.face.Advance, row*s.face.Height+s.face.Ascent),
	}
	d.DrawString(text)
}

// Flush sends the frame to the device.
func (s *Screen) Flush() error {
	return s.dev.Draw(s.dev.Bounds(), s.img, image.Point{})
}

// Halt blanks and powers down the device.
func (s *Screen) Halt() error {
	return s.dev.Halt()
}
