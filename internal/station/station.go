// Package station wires the sensors, display and uploader into the event
// loop's timer callbacks. All methods run on the loop goroutine; state is
// unsynchronized by design.
package station

import (
	"errors"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/airquality-sensor/internal/evloop"
	"github.com/sweeney/airquality-sensor/internal/gpio"
	"github.com/sweeney/airquality-sensor/internal/logic"
	"github.com/sweeney/airquality-sensor/internal/sensor/ccs811"
	"github.com/sweeney/airquality-sensor/internal/telemetry"
)

// ClimateSensor reads ambient temperature and humidity.
type ClimateSensor interface {
	Sense(env *physic.Env) error
}

// GasSensor reads air quality with environmental compensation.
type GasSensor interface {
	SetEnvironment(temp physic.Temperature, humidity physic.RelativeHumidity) error
	Sense() (ccs811.Reading, error)
}

// Display is the text surface readings are rendered to.
type Display interface {
	Clear()
	DrawText(row, col int, text string)
	Flush() error
}

// Timer is the part of an event-loop timer a callback must service.
// *evloop.Timer implements it.
type Timer interface {
	Consume() error
}

// Page selects what the display shows.
type Page int

const (
	PageReadings Page = iota
	PageStatus
)

// Station holds the monitor's runtime state: the latest reading snapshot,
// the edge detectors for the two polled pins, and counters for the status
// page.
type Station struct {
	climate   ClimateSensor
	gas       GasSensor
	screen    Display             // nil when built without a display
	publisher telemetry.Publisher // nil when built without cloud upload
	button    gpio.Pin
	dataReady gpio.Pin
	term      *evloop.Term

	buttonEdge *logic.EdgeDetector
	readyEdge  *logic.EdgeDetector

	snapshot     logic.Snapshot
	page         Page
	startTime    time.Time
	measurements int
	uploads      int
	now          func() time.Time
}

// New builds a station. screen and publisher may be nil; the corresponding
// outputs are simply skipped. The initial snapshot carries the gas
// sensor's clean-air baseline so an upload that fires before the first
// measurement sends plausible values rather than zeros.
func New(climate ClimateSensor, gas GasSensor, screen Display, publisher telemetry.Publisher, button, dataReady gpio.Pin, term *evloop.Term) *Station {
	return &Station{
		climate:    climate,
		gas:        gas,
		screen:     screen,
		publisher:  publisher,
		button:     button,
		dataReady:  dataReady,
		term:       term,
		buttonEdge: logic.NewEdgeDetector(logic.Low),
		readyEdge:  logic.NewEdgeDetector(logic.Low),
		snapshot:   logic.Snapshot{ECO2: 400, TVOC: 0},
		startTime:  time.Now(),
		now:        time.Now,
	}
}

// Snapshot returns the latest completed reading set.
func (s *Station) Snapshot() logic.Snapshot {
	return s.snapshot
}

// PollDataReady runs on the data-ready poll timer. It samples the sensor's
// nINT line and runs a measurement pass when the line asserts.
func (s *Station) PollDataReady(t Timer) {
	if err := t.Consume(); err != nil {
		s.fatal("consume data-ready timer", err)
		return
	}

	level, err := s.dataReady.Level()
	if err != nil {
		s.fatal("read data-ready pin", err)
		return
	}
	if !s.readyEdge.Sample(level) {
		return
	}
	s.measure()
}

// measure runs one full read cycle: climate first, fed into the gas
// sensor's compensation, then the result registers (which clears the
// sensor's ready signal). The snapshot is overwritten only after every
// read succeeded, so observers see the old tuple or the new one, never a
// mix.
func (s *Station) measure() {
	var env physic.Env
	if err := s.climate.Sense(&env); err != nil {
		s.fatal("read climate sensor", err)
		return
	}
	if err := s.gas.SetEnvironment(env.Temperature, env.Humidity); err != nil {
		s.fatal("set gas sensor compensation", err)
		return
	}

	r, err := s.gas.Sense()
	if errors.Is(err, ccs811.ErrNoData) {
		// The ready line asserted but the result was not in place yet.
		// Not a failure; the next edge will deliver it.
		log.Printf("station: no results")
		return
	}
	if err != nil {
		s.fatal("read gas sensor", err)
		return
	}

	s.snapshot = logic.Snapshot{
		ECO2:        uint16(r.ECO2),
		TVOC:        uint16(r.TVOC),
		Temperature: env.Temperature.Celsius(),
		Humidity:    float64(env.Humidity) / float64(physic.PercentRH),
	}
	s.measurements++

	if err := s.RefreshDisplay(); err != nil {
		s.fatal("refresh display", err)
	}
}

// PollButton runs on the fast button poll timer. A press (HIGH->LOW edge)
// flips the display between the readings and status pages.
func (s *Station) PollButton(t Timer) {
	if err := t.Consume(); err != nil {
		s.fatal("consume button timer", err)
		return
	}

	level, err := s.button.Level()
	if err != nil {
		s.fatal("read button pin", err)
		return
	}
	if !s.buttonEdge.Sample(level) {
		return
	}

	if s.page == PageReadings {
		s.page = PageStatus
	} else {
		s.page = PageReadings
	}
	if err := s.RefreshDisplay(); err != nil {
		s.fatal("refresh display", err)
	}
}

// Upload runs on the upload interval timer. It sends the current snapshot
// whether or not a new measurement arrived since the last send; the cloud
// side treats repeats as a heartbeat. Send failures are logged, never
// fatal — the publisher buffers and retries on its own.
func (s *Station) Upload(t Timer) {
	if err := t.Consume(); err != nil {
		s.fatal("consume upload timer", err)
		return
	}
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(s.snapshot); err != nil {
		log.Printf("station: upload error: %v", err)
		return
	}
	s.uploads++
}

// Maintenance is the loop's per-iteration hook. It only forwards to the
// publisher's client maintenance, which is a no-op when idle.
func (s *Station) Maintenance() {
	if s.publisher != nil {
		s.publisher.DoWork()
	}
}

// RefreshDisplay redraws the current page. main calls it once at startup
// so the screen shows the baseline before the first measurement lands.
func (s *Station) RefreshDisplay() error {
	if s.screen == nil {
		return nil
	}

	s.screen.Clear()
	switch s.page {
	case PageReadings:
		s.screen.DrawText(0, 0, "Air Quality")
		s.screen.DrawText(1, 0, fmt.Sprintf("eCO2 %5d ppm", s.snapshot.ECO2))
		s.screen.DrawText(2, 0, fmt.Sprintf("TVOC %5d ppb", s.snapshot.TVOC))
		s.screen.DrawText(3, 0, fmt.Sprintf("%.1fC %.1f%%RH", s.snapshot.Temperature, s.snapshot.Humidity))
	case PageStatus:
		s.screen.DrawText(0, 0, "Status")
		s.screen.DrawText(1, 0, fmt.Sprintf("up %s", formatUptime(s.now().Sub(s.startTime))))
		s.screen.DrawText(2, 0, fmt.Sprintf("meas %d", s.measurements))
		s.screen.DrawText(3, 0, fmt.Sprintf("sent %d", s.uploads))
	}
	return s.screen.Flush()
}

// fatal logs the failing operation and requests termination. There is no
// retry anywhere: a supervising process restarts the monitor on exit.
func (s *Station) fatal(op string, err error) {
	log.Printf("station: %s: %v", op, err)
	s.term.Request()
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	sec := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
}
