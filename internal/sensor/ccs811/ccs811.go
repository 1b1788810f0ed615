// Package ccs811 drives the ams CCS811 gas sensor over I2C. It reports an
// equivalent-CO2 and a total-VOC estimate, compensated with externally
// supplied temperature and humidity.
//
// Datasheet
//
//	https://www.sciosense.com/wp-content/uploads/documents/SC-001232-DS-3-CCS811B-Datasheet-Revision-2.pdf
package ccs811

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Register map.
const (
	regStatus        byte = 0x00
	regMeasMode      byte = 0x01
	regAlgResultData byte = 0x02
	regEnvData       byte = 0x05
	regHWID          byte = 0x20
	regErrorID       byte = 0xE0
	regAppStart      byte = 0xF4
)

// Status register bits.
const (
	statusFwMode    byte = 1 << 7
	statusAppValid  byte = 1 << 4
	statusDataReady byte = 1 << 3
	statusError     byte = 1 << 0
)

// Drive modes (MEAS_MODE bits 6:4).
const (
	modeIdle     byte = 0x00
	modeEverySec byte = 0x10
)

const hwID byte = 0x81

// I2C addresses, selected by the ADDR pin.
const (
	DefaultAddr uint16 = 0x5A
	AltAddr     uint16 = 0x5B
)

// ErrNoData is returned by Sense when the sensor has not finished a new
// measurement yet. It is a transient condition, not a device failure.
var ErrNoData = errors.New("ccs811: no new sample ready")

// errorBits maps ERROR_ID register bits to their datasheet names.
var errorBits = []struct {
	mask byte
	name string
}{
	{1 << 0, "WRITE_REG_INVALID"},
	{1 << 1, "READ_REG_INVALID"},
	{1 << 2, "MEASMODE_INVALID"},
	{1 << 3, "MAX_RESISTANCE"},
	{1 << 4, "HEATER_FAULT"},
	{1 << 5, "HEATER_SUPPLY"},
}

func decodeErrorID(id byte) string {
	var names []string
	for _, b := range errorBits {
		if id&b.mask != 0 {
			names = append(names, b.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("unknown error id %#02x", id)
	}
	return strings.Join(names, "|")
}

// ECO2 is an equivalent-CO2 estimate in ppm.
type ECO2 uint16

func (e ECO2) String() string {
	return strconv.Itoa(int(e)) + "ppm"
}

// TVOC is a total volatile organic compounds estimate in ppb.
type TVOC uint16

func (t TVOC) String() string {
	return strconv.Itoa(int(t)) + "ppb"
}

// Reading is one completed air-quality measurement.
type Reading struct {
	ECO2 ECO2
	TVOC TVOC
}

// Dev is a handle to an initialized CCS811.
type Dev struct {
	d conn.Conn
}

// NewI2C verifies the device identity, starts the sensor application and
// puts it in 1-second constant-power drive mode. The sensor needs roughly
// 20 minutes of burn-in before readings stabilize; that is the sensor's
// concern, not the caller's.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}}

	var id [1]byte
	if err := d.d.Tx([]byte{regHWID}, id[:]); err != nil {
		return nil, fmt.Errorf("ccs811: read hw id: %w", err)
	}
	if id[0] != hwID {
		return nil, fmt.Errorf("ccs811: unexpected hw id %#02x, want %#02x", id[0], hwID)
	}

	status, err := d.status()
	if err != nil {
		return nil, err
	}
	if status&statusAppValid == 0 {
		return nil, errors.New("ccs811: no valid application firmware loaded")
	}

	if err := d.d.Tx([]byte{regAppStart}, nil); err != nil {
		return nil, fmt.Errorf("ccs811: app start: %w", err)
	}
	if err := d.d.Tx([]byte{regMeasMode, modeEverySec}, nil); err != nil {
		return nil, fmt.Errorf("ccs811: set drive mode: %w", err)
	}
	return d, nil
}

// Ready reports whether a new measurement is waiting in ALG_RESULT_DATA.
func (d *Dev) Ready() (bool, error) {
	status, err := d.status()
	if err != nil {
		return false, err
	}
	return status&statusDataReady != 0, nil
}

// Sense reads the measurement result registers. Reading them clears the
// sensor's data-ready state and deasserts its nINT line. Returns ErrNoData
// if no new measurement has completed since the last read.
func (d *Dev) Sense() (Reading, error) {
	status, err := d.status()
	if err != nil {
		return Reading{}, err
	}
	if status&statusError != 0 {
		return Reading{}, d.deviceError()
	}
	if status&statusDataReady == 0 {
		return Reading{}, ErrNoData
	}

	var buf [4]byte
	if err := d.d.Tx([]byte{regAlgResultData}, buf[:]); err != nil {
		return Reading{}, fmt.Errorf("ccs811: read result: %w", err)
	}
	return Reading{
		ECO2: ECO2(binary.BigEndian.Uint16(buf[0:2])),
		TVOC: TVOC(binary.BigEndian.Uint16(buf[2:4])),
	}, nil
}

// SetEnvironment feeds ambient temperature and humidity into the sensor's
// compensation algorithm. Values are encoded as 1/512 fixed point, with
// temperature offset by +25 degC per the datasheet.
func (d *Dev) SetEnvironment(temp physic.Temperature, humidity physic.RelativeHumidity) error {
	celsius := temp.Celsius()
	if celsius < -25 {
		celsius = -25
	}
	rh := float64(humidity) / float64(physic.PercentRH)
	if rh < 0 {
		rh = 0
	} else if rh > 100 {
		rh = 100
	}

	hRaw := uint16(rh * 512)
	tRaw := uint16((celsius + 25) * 512)

	buf := []byte{regEnvData, byte(hRaw >> 8), byte(hRaw), byte(tRaw >> 8), byte(tRaw)}
	if err := d.d.Tx(buf, nil); err != nil {
		return fmt.Errorf("ccs811: set env data: %w", err)
	}
	return nil
}

// Halt puts the sensor in idle (no measurements) mode. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	if err := d.d.Tx([]byte{regMeasMode, modeIdle}, nil); err != nil {
		return fmt.Errorf("ccs811: halt: %w", err)
	}
	return nil
}

func (d *Dev) status() (byte, error) {
	var buf [1]byte
	if err := d.d.Tx([]byte{regStatus}, buf[:]); err != nil {
		return 0, fmt.Errorf("ccs811: read status: %w", err)
	}
	return buf[0], nil
}

// deviceError reads and decodes ERROR_ID. Reading it clears the error
// condition on the device.
func (d *Dev) deviceError() error {
	var buf [1]byte
	if err := d.d.Tx([]byte{regErrorID}, buf[:]); err != nil {
		return fmt.Errorf("ccs811: read error id: %w", err)
	}
	return fmt.Errorf("ccs811: device error: %s", decodeErrorID(buf[0]))
}
