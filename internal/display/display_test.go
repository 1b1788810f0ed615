package display

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func countLit(img image.Image, r image.Rectangle) int {
	lit := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if g := color.GrayModel.Convert(img.At(x, y)).(color.Gray); g.Y > 0 {
				lit++
			}
		}
	}
	return lit
}

func TestScreenGeometry(t *testing.T) {
	s := NewScreen(NewFakeDevice())

	// 128x64 panel with the 7x13 face: 18 columns, 4 rows.
	if got := s.Cols(); got != 18 {
		t.Errorf("Cols() = %d, want 18", got)
	}
	if got := s.Rows(); got != 4 {
		t.Errorf("Rows() = %d, want 4", got)
	}
}

func TestDrawTextLightsPixelsInCell(t *testing.T) {
	dev := NewFakeDevice()
	s := NewScreen(dev)

	s.DrawText(1, 2, "X")
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	img := dev.LastFrame()
	if img == nil {
		t.Fatal("no frame pushed")
	}

	cell := image.Rect(2*7, 1*13, 3*7, 2*13)
	if countLit(img, cell) == 0 {
		t.Error("glyph cell has no lit pixels")
	}
	if lit := countLit(img, img.Bounds()); lit != countLit(img, cell) {
		t.Errorf("pixels lit outside the glyph cell: %d total", lit)
	}
}

func TestClearBlanksFrame(t *testing.T) {
	dev := NewFakeDevice()
	s := NewScreen(dev)

	s.DrawText(0, 0, "CO2 450ppm")
	s.Clear()
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if lit := countLit(dev.LastFrame(), dev.Bounds()); lit != 0 {
		t.Errorf("%d pixels lit after Clear", lit)
	}
}

func TestDrawTextOutOfRangeIgnored(t *testing.T) {
	dev := NewFakeDevice()
	s := NewScreen(dev)

	s.DrawText(-1, 0, "above")
	s.DrawText(4, 0, "below")
	s.DrawText(0, -2, "left")
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if lit := countLit(dev.LastFrame(), dev.Bounds()); lit != 0 {
		t.Errorf("%d pixels lit for out-of-range rows", lit)
	}
}

func TestFlushPropagatesError(t *testing.T) {
	dev := NewFakeDevice()
	dev.DrawError = errors.New("bus gone")
	s := NewScreen(dev)

	if err := s.Flush(); err == nil {
		t.Error("expected Flush to surface device error")
	}
}

func TestHalt(t *testing.T) {
	dev := NewFakeDevice()
	s := NewScreen(dev)

	if err := s.Halt(); err != nil {
		t.Fatalf("Halt: %v", err)
	}
	if !dev.Halted {
		t.Error("device not halted")
	}
}
