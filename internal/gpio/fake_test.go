package gpio

import (
	"errors"
	"testing"

	"github.com/sweeney/airquality-sensor/internal/logic"
)

func TestFakePinLevel(t *testing.T) {
	f := NewFakePin(logic.High, logic.Low, logic.High)

	want := []logic.Level{logic.High, logic.Low, logic.High, logic.High}
	for i, w := range want {
		l, err := f.Level()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if l != w {
			t.Errorf("sample %d: got %v, want %v", i, l, w)
		}
	}
}

func TestFakePinNoLevels(t *testing.T) {
	f := NewFakePin()

	if _, err := f.Level(); err == nil {
		t.Error("expected error with no levels")
	}
}

func TestFakePinError(t *testing.T) {
	f := NewFakePin(logic.High)
	f.ReadError = errors.New("simulated error")

	if _, err := f.Level(); err == nil {
		t.Error("expected error to be returned")
	}
}

func TestFakePinCloseAndReset(t *testing.T) {
	f := NewFakePin(logic.High, logic.Low)

	f.Level()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	if l, _ := f.Level(); l != logic.High {
		t.Errorf("after reset: got %v, want High", l)
	}
}
