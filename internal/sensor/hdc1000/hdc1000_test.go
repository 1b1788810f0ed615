package hdc1000

import (
	"math"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

var pbInit = []i2ctest.IO{
	{Addr: DefaultAddr, W: []byte{0xFE}, R: []byte{0x54, 0x49}},
	{Addr: DefaultAddr, W: []byte{0xFF}, R: []byte{0x10, 0x00}},
	{Addr: DefaultAddr, W: []byte{0x02, 0x00, 0x00}},
}

func TestNewI2CRejectsWrongIDs(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: DefaultAddr, W: []byte{0xFE}, R: []byte{0x00, 0x00}}},
		DontPanic: true,
	}
	if _, err := NewI2C(bus, DefaultAddr); err == nil {
		t.Fatal("expected error for wrong manufacturer id")
	}

	bus = &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{0xFE}, R: []byte{0x54, 0x49}},
			{Addr: DefaultAddr, W: []byte{0xFF}, R: []byte{0xBE, 0xEF}},
		},
		DontPanic: true,
	}
	if _, err := NewI2C(bus, DefaultAddr); err == nil {
		t.Fatal("expected error for wrong device id")
	}
}

func TestSense(t *testing.T) {
	ops := append(append([]i2ctest.IO{}, pbInit...),
		// temperature: raw 0x8000 -> 42.5 degC
		i2ctest.IO{Addr: DefaultAddr, W: []byte{0x00}},
		i2ctest.IO{Addr: DefaultAddr, R: []byte{0x80, 0x00}},
		// humidity: raw 0x8000 -> 50 %RH
		i2ctest.IO{Addr: DefaultAddr, W: []byte{0x01}},
		i2ctest.IO{Addr: DefaultAddr, R: []byte{0x80, 0x00}},
	)
	bus := &i2ctest.Playback{Ops: ops, DontPanic: true}

	d, err := NewI2C(bus, DefaultAddr)
	if err != nil {
		t.Fatalf("NewI2C: %v", err)
	}

	var env physic.Env
	if err := d.Sense(&env); err != nil {
		t.Fatalf("Sense: %v", err)
	}

	if got := env.Temperature.Celsius(); math.Abs(got-42.5) > 0.01 {
		t.Errorf("temperature = %.3f degC, want 42.5", got)
	}
	if got := float64(env.Humidity) / float64(physic.PercentRH); math.Abs(got-50) > 0.01 {
		t.Errorf("humidity = %.3f %%RH, want 50", got)
	}
	if env.Pressure != 0 {
		t.Errorf("pressure = %v, want 0 (not measured)", env.Pressure)
	}

	if err := bus.Close(); err != nil {
		t.Errorf("unconsumed playback ops: %v", err)
	}
}

func TestCountConversions(t *testing.T) {
	cases := []struct {
		count uint16
		wantC float64
	}{
		{0x0000, -40.0},
		{0x8000, 42.5},
		{0xFFFF, 124.997},
	}
	for _, c := range cases {
		got := countToTemperature(c.count).Celsius()
		if math.Abs(got-c.wantC) > 0.01 {
			t.Errorf("countToTemperature(%#04x) = %.3f, want %.3f", c.count, got, c.wantC)
		}
	}

	if got := float64(countToHumidity(0x4000)) / float64(physic.PercentRH); math.Abs(got-25) > 0.01 {
		t.Errorf("countToHumidity(0x4000) = %.3f, want 25", got)
	}
}
