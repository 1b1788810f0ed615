// Package hdc1000 drives the Texas Instruments HDC1000/HDC1008
// temperature and relative-humidity sensor over I2C.
//
// Datasheet
//
//	https://www.ti.com/lit/ds/symlink/hdc1000.pdf
package hdc1000

import (
	"encoding/binary"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Register map.
const (
	regTemperature    byte = 0x00
	regHumidity       byte = 0x01
	regConfiguration  byte = 0x02
	regManufacturerID byte = 0xFE
	regDeviceID       byte = 0xFF
)

const (
	manufacturerID uint16 = 0x5449 // "TI"
	deviceID       uint16 = 0x1000
)

// DefaultAddr is the address with both ADR pins grounded.
const DefaultAddr uint16 = 0x40

// conversionTime is the worst-case 14-bit conversion time per channel,
// rounded up from the datasheet's 6.50 ms.
const conversionTime = 7 * time.Millisecond

const (
	// Magic numbers for raw count to value conversions.
	temperatureOffset float64 = -40.0
	temperatureScalar float64 = 165.0
	humidityScalar    float64 = 100.0
	scaleDivisor      float64 = 65536.0
)

// Dev is a handle to an initialized HDC1000.
type Dev struct {
	d conn.Conn
}

// NewI2C verifies the device identity and configures independent 14-bit
// acquisition of temperature and humidity.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}}

	var buf [2]byte
	if err := d.d.Tx([]byte{regManufacturerID}, buf[:]); err != nil {
		return nil, fmt.Errorf("hdc1000: read manufacturer id: %w", err)
	}
	if got := binary.BigEndian.Uint16(buf[:]); got != manufacturerID {
		return nil, fmt.Errorf("hdc1000: unexpected manufacturer id %#04x, want %#04x", got, manufacturerID)
	}
	if err := d.d.Tx([]byte{regDeviceID}, buf[:]); err != nil {
		return nil, fmt.Errorf("hdc1000: read device id: %w", err)
	}
	if got := binary.BigEndian.Uint16(buf[:]); got != deviceID {
		return nil, fmt.Errorf("hdc1000: unexpected device id %#04x, want %#04x", got, deviceID)
	}

	// MODE=0: temperature and humidity acquired independently, both 14-bit.
	if err := d.d.Tx([]byte{regConfiguration, 0x00, 0x00}, nil); err != nil {
		return nil, fmt.Errorf("hdc1000: configure: %w", err)
	}
	return d, nil
}

// Sense triggers one temperature and one humidity conversion and writes the
// results into env. Measurement reads cannot use a repeated start: the
// pointer write starts the conversion and the result is read after the
// conversion time has passed.
func (d *Dev) Sense(env *physic.Env) error {
	env.Temperature = 0
	env.Pressure = 0
	env.Humidity = 0

	tRaw, err := d.measure(regTemperature)
	if err != nil {
		return fmt.Errorf("hdc1000: temperature: %w", err)
	}
	hRaw, err := d.measure(regHumidity)
	if err != nil {
		return fmt.Errorf("hdc1000: humidity: %w", err)
	}

	env.Temperature = countToTemperature(tRaw)
	env.Humidity = countToHumidity(hRaw)
	return nil
}

// Halt is a no-op: the device only converts on demand. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) measure(reg byte) (uint16, error) {
	if err := d.d.Tx([]byte{reg}, nil); err != nil {
		return 0, fmt.Errorf("trigger: %w", err)
	}
	time.Sleep(conversionTime)
	var buf [2]byte
	if err := d.d.Tx(nil, buf[:]); err != nil {
		return 0, fmt.Errorf("read result: %w", err)
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func countToTemperature(count uint16) physic.Temperature {
	f := float64(count)/scaleDivisor*temperatureScalar + temperatureOffset
	return physic.ZeroCelsius + physic.Temperature(f*float64(physic.Celsius))
}

func countToHumidity(count uint16) physic.RelativeHumidity {
	f := float64(count) / scaleDivisor * humidityScalar
	return physic.RelativeHumidity(f * float64(physic.PercentRH))
}
